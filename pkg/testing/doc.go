// Package testing provides a test harness for layer components.
//
// # Quick Start
//
// Create a tester, pump a widget, and make assertions about the surface:
//
//	func TestStorm(t *testing.T) {
//	    tester := layertest.NewLayerTesterWithT(t)
//	    tester.PumpWidget(ellipse.Ellipse.New(props))
//
//	    // Find layers
//	    e := tester.Find(layertest.ByType[*surface.Ellipse]()).First()
//
//	    // Simulate a click
//	    tester.Click(layertest.ByID(e.ID()))
//
//	    // Assert what the last frame did
//	    if got := tester.TakeEvents(); len(got) != 1 {
//	        t.Errorf("expected one event, got %v", got)
//	    }
//	}
//
// PumpWidget wraps the widget in a provider whose container is the tester's
// map, so the widget's layers attach to it. Errors reported by layers while
// the tester is active are collected instead of logged; see
// [LayerTester.Reports].
//
// # Snapshot Testing
//
// Capture and compare the layer tree and the event trace:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/storm.snapshot.json")
//
// Layer ids in snapshots are stable aliases such as "ellipse#0", assigned in
// the order layers were first seen. Update snapshots with:
//
//	LAYERKIT_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import layertest "github.com/go-drift/layerkit/pkg/testing"
package testing
