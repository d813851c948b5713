package deps_test

import (
	"fmt"

	"github.com/matzehuels/unidep/pkg/deps"
)

func ExampleParsePackageString() {
	d, err := deps.ParsePackageString("cuda-toolkit =11.8:linux64")
	if err != nil {
		panic(err)
	}
	fmt.Println("name:", d.Name)
	fmt.Println("pin:", d.Pin)
	fmt.Println("selector:", d.Selector)
	// Output:
	// name: cuda-toolkit
	// pin: =11.8
	// selector: linux64
}

func ExampleSpec_NameWithPin() {
	d, _ := deps.ParsePackageString("python =3.11")
	specs, _ := d.Specs(0)
	for _, s := range specs {
		fmt.Printf("%s: %s\n", s.Which, s.NameWithPin())
	}
	// Output:
	// conda: python =3.11
	// pip: python ==3.11
}
