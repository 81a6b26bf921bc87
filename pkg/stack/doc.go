// Package stack implements the tallest-stack search.
//
// # Overview
//
// Given a box collection, [Evaluator.Evaluate] visits every subset of the
// boxes (see package combo) and builds exactly one candidate stack per subset
// with a fixed greedy rule over the base hierarchy (see package hierarchy):
//
//  1. Walk the bases in ascending-area order.
//  2. At each base, among the subset's unused boxes that can present it, take
//     the one with the greatest height; ties keep the earlier input box.
//  3. Reverse the picks so the stack runs from the largest base (bottom) to
//     the smallest (top).
//
// The candidate is then checked pair by pair: a lower base must exceed the
// upper base in both positions. A failing pair gets one chance, with the upper
// base turned a quarter (its components swapped); if that passes the turned
// base is kept and becomes the next pair's lower base, otherwise the whole
// subset is rejected. Accepted candidates are scored by summed height and the
// tallest wins; among equal heights the subset enumerated first wins.
//
// This is a heuristic. Only one box assignment per subset is ever tried and
// greedy picks are never revisited, so the result is not guaranteed to be the
// tallest stack physically achievable. The behavior is intentional and
// stable: changing it would change answers on inputs with ties.
//
// # Concurrency
//
// Subsets are independent, so the search fans out over a worker pool with
// read-only access to the hierarchy. Each worker keeps its own best and the
// results are reduced once all workers finish, which yields exactly the same
// winner as a sequential scan. Boxes are never mutated during the search: the
// winning orientations are applied to copies in a final step.
//
// # Correction Breadth
//
// [Options.MaxCorrections] bounds the number of quarter turns applied across
// one candidate. Zero, the default, allows one turn per failing pair. Setting
// it to 1 restricts a whole candidate to a single turn.
package stack
