package cli

import (
	"github.com/spf13/cobra"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/platform"
)

// SelectorOptions holds the discovery selectors of a command.
type SelectorOptions struct {
	Packages []string
	Classes  []string
}

func (o *SelectorOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&o.Packages, "select-package", "p", nil, "select every fixture of a package (repeatable)")
	cmd.Flags().StringArrayVarP(&o.Classes, "select-class", "s", nil, "select a fixture by qualified name (repeatable)")
}

// request builds the discovery request. Classes are resolved in loader;
// an unknown class or no selector at all is a command error.
func (o *SelectorOptions) request(loader *classpath.Loader) (*platform.DiscoveryRequest, error) {
	if len(o.Packages) == 0 && len(o.Classes) == 0 {
		return nil, NewExitError(ExitCommandError, "no selectors: use --select-package or --select-class")
	}

	var selectors []platform.Selector
	for _, name := range o.Classes {
		t, err := loader.Load(name)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid class selector", err)
		}
		selectors = append(selectors, platform.SelectClass(t))
	}
	for _, pkg := range o.Packages {
		selectors = append(selectors, platform.SelectPackage(pkg))
	}
	return platform.NewDiscoveryRequest(loader, selectors...), nil
}
