// Package tree is the discovery skeleton shared by every engine variant.
//
// A Builder turns a discovery request into a three-level tree:
//
//	engine root
//	└── specification (one per eligible fixture type)
//	    └── example (one per example name, in locator order)
//
// Variants differ only in the strategies a Builder is composed from: the
// eligibility predicate, the fixture-object factory, the context
// adjustment applied to candidates, and an optional prerequisite run
// before each append.
//
// Specification descriptors are cached per Builder in a SpecCache and
// survive across discovery calls. A later discovery re-parents the cached
// descriptor under the new root, detaching it from the previous one, and
// rebuilds its examples. The descriptor keeps the id it was created with.
package tree
