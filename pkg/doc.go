// Package pkg provides the core libraries for Boxtower, the tallest-stack
// search.
//
// # Overview
//
// Given a collection of rectangular boxes, Boxtower finds the tallest stack in
// which every box rests on a base strictly longer and wider than its own.
// Every subset of the collection is tried; each subset is stacked greedily,
// largest base first, with one quarter-turn correction where a pair fails the
// ordering check. The pkg directory is organized into four areas:
//
//  1. Search core: [box], [combo], [hierarchy], [stack], [progress]
//  2. Boundary: [errors], [io], [config]
//  3. Drawing: [render], [render/isometric], [render/stackdot]
//  4. Orchestration and infrastructure: [pipeline], [cache], [archive],
//     [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	flags / box file / interactive form
//	         ↓
//	    [io] package (parse and validate boxes)
//	         ↓
//	    [stack] package (evaluate every subset, concurrently)
//	         ↓
//	    [pipeline] package (cache, archive, render)
//	         ↓
//	    SVG/PNG/PDF/DOT/JSON output
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/boxtower/pkg/box"
//	    "github.com/matzehuels/boxtower/pkg/render/isometric"
//	    "github.com/matzehuels/boxtower/pkg/stack"
//	)
//
//	boxes := []box.Box{box.New(4, 4, 2), box.New(3, 3, 3)}
//	sol, _ := stack.Evaluate(context.Background(), boxes)
//	svg := isometric.RenderSVG(sol)
//
// # Testing
//
//	go test ./...                                        # All tests
//	BOXTOWER_REDIS_ADDR=localhost:6379 go test ./pkg/cache   # Redis backend
//	BOXTOWER_MONGO_URI=mongodb://localhost go test ./pkg/archive
//
// [box]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/box
// [combo]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/combo
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/hierarchy
// [stack]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/stack
// [progress]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/progress
// [errors]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/errors
// [io]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/io
// [config]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/config
// [render]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/render
// [render/isometric]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/render/isometric
// [render/stackdot]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/render/stackdot
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/cache
// [archive]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/archive
// [observability]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/boxtower/pkg/buildinfo
package pkg
