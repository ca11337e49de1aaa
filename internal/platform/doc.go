// Package platform defines the contract between test engines and the code
// that drives them: unique ids, the descriptor tree, discovery and
// execution requests, execution listeners and the engine interface.
//
// An engine turns a DiscoveryRequest into a descriptor tree rooted at an
// engine root, and later executes that tree, reporting progress to an
// ExecutionListener. Engines are registered as loader services of kind
// EngineService so that a bootstrapped runtime can look up its own copy by
// identifier.
package platform
