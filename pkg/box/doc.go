// Package box provides the rectangular box value type used by the stacking
// search.
//
// # Overview
//
// A [Box] holds three positive dimensions in the slots L, W and H. The slot
// labels are not physical axes: any two dimensions can form the footprint the
// box rests on, with the remaining one becoming its height. A box therefore
// exposes exactly three orientations, enumerated in a fixed order:
//
//	(L, W) height H
//	(L, H) height W
//	(W, H) height L
//
// # Bases
//
// A [Base] is an ordered pair of dimensions forming a contact area. Two bases
// are the same physical base when their values match regardless of order
// ([Base.Same]); the order matters when checking whether one base strictly
// supports another ([Base.Supports]), which compares position for position.
//
// # Orientation Is a Value
//
// Box methods that answer orientation questions ([Box.Orientations],
// [Box.Presents], [Box.HeightFor], [Box.Oriented]) are pure functions of the
// dimension multiset. The only mutating operation is [Box.SetOrientation],
// which relabels the slots in place. The search core never calls it on shared
// boxes; it is applied once, to copies, when a solution is returned.
//
//	b := box.New(4, 4, 2)
//	for o := range b.Orientations() {
//	    fmt.Println(o.Base, o.Height)
//	}
//	if err := b.SetOrientation(box.Base{2, 4}); err != nil {
//	    return err
//	}
//	// b is now (L:2,W:4,H:4)
package box
