// Package samples is a small application of fixtures exercising every
// engine. Install defines them in a loader together with the beans they
// depend on; their specifications are embedded.
package samples

import (
	"embed"
	"path/filepath"
	"runtime"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/inject"
	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/restclient"
	"github.com/granito-source/concordion/internal/specification"
)

// Package names of the sample fixtures.
const (
	PackageSpec      = "spec"
	PackageLifecycle = "spec/lifecycle"
	PackageApp       = "spec/app"
	PackageLegacy    = "spec/legacy"
)

//go:embed specs
var specs embed.FS

// Location is the source directory of the samples.
var Location = func() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	return filepath.Dir(file)
}()

// Locator finds the embedded specifications of the samples.
func Locator() specification.Locator {
	return specification.FSLocator{FS: specs, Dir: "specs"}
}

// Install defines the sample fixtures in l and registers their container
// and REST client.
func Install(l *classpath.Loader) {
	define := func(pkg, name string, newFn func() any, markers ...string) {
		l.MustDefine(classpath.TypeSpec{
			Package:  pkg,
			Name:     name,
			Markers:  markers,
			Location: Location,
			New:      newFn,
		})
	}

	define(PackageSpec, "DemoFixture", func() any { return &DemoFixture{} }, platform.MarkerFixture)
	define(PackageSpec, "PartialMatchesFixture", func() any { return NewPartialMatchesFixture() }, platform.MarkerFixture)
	define(PackageSpec, "SpikeFixture", func() any { return &SpikeFixture{} }, platform.MarkerFixture)
	define(PackageSpec, "UnmarkedFixture", func() any { return &DemoFixture{} })
	define(PackageSpec, "Person", func() any { return &Person{} }, platform.MarkerFixture)

	define(PackageLifecycle, "GreetingFixture", func() any { return &GreetingFixture{} }, platform.MarkerLifecycleFixture)

	define(PackageApp, "DemoFixture", func() any { return &AppDemoFixture{} }, platform.MarkerAppFixture)
	define(PackageApp, "SpikeFixture", func() any { return &AppSpikeFixture{} }, platform.MarkerAppFixture)

	define(PackageLegacy, "DemoFixture", func() any { return &DemoFixture{} }, platform.MarkerLegacy)

	client := restclient.New()
	inject.Register(l, inject.NewContainer().
		MustProvide(EnglishGreeter{}, new(Greeter)).
		MustProvide(client))
	restclient.Register(l, client)
}
