package isometric_test

import (
	"fmt"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/render/isometric"
)

func ExampleProject() {
	sc := isometric.Project([]box.Box{box.New(5, 7, 9)})
	fmt.Println(len(sc.Lines), "edges")
	fmt.Println(sc.Labels[len(sc.Labels)-1].Text)
	// Output:
	// 9 edges
	// Total Height: 9
}
