// Package classpath models isolated type namespaces ("class-loading
// contexts") for fixture discovery.
//
// Go links every type into one binary, so a context is an explicit object:
// a Loader owns an ordered registry of fixture Types and services that is
// populated by running Installers. Two loaders that run the same installers
// hold distinct *Type values for the same qualified name, which is how a
// bootstrapped application runtime keeps its fixtures apart from the host.
//
// # Parent-first packages
//
// A child loader may list packages that are always delegated to its parent.
// Types in those packages are defined once, in the parent, and shared by
// both contexts:
//
//	host := classpath.NewLoader("host", nil, installers...)
//	rt := classpath.NewChild("runtime", host,
//	    classpath.WithParentFirst("example.com/shared"),
//	    classpath.WithMarkers("concordion.runtime"))
//	rt.Install(installers...)
//
// # Properties
//
// Properties are the process-wide key/value settings visible from every
// context; a child loader shares its root's Properties.
package classpath
