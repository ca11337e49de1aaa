// Package specification resolves a fixture type to its specification
// content: a display title and the ordered list of example names.
//
// Specifications are YAML manifests stored next to the fixture sources,
// named after the fixture with its Fixture or Test suffix stripped:
//
//	spec/DemoFixture  ->  <location of spec>/Demo.yaml
//
// A manifest looks like:
//
//	title: Demo
//	examples:
//	  - name: greeting
//	    description: says hello
//
// Example names are the ids of the example descriptors, so they must be
// unique and non-empty. Running an example is delegated to the fixture
// object through the ExampleRunner interface.
package specification
