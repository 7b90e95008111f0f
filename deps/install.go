package deps

import (
	"context"
	"fmt"
)

// PackageManager identifies the tool used to install external dependencies.
type PackageManager string

const (
	NPM  PackageManager = "npm"
	Yarn PackageManager = "yarn"
	PNPM PackageManager = "pnpm"
	Bun  PackageManager = "bun"
)

// Installer installs a dependency set into a directory. Execution is out of
// this package's scope; this is the contract a runner implements.
type Installer interface {
	Install(ctx context.Context, dir string, dependencies map[string]string) error
}

// InstallArgs builds the argv slice (after the package-manager binary) that
// installs the given dependency set. Every name and range is validated
// before being placed on a command line; any failure aborts the whole call.
func InstallArgs(pm PackageManager, dependencies map[string]string) ([]string, error) {
	var verb string
	switch pm {
	case NPM, PNPM, Bun:
		verb = "install"
	case Yarn:
		verb = "add"
	default:
		return nil, fmt.Errorf("unsupported package manager %q", pm)
	}

	args := []string{verb}
	for _, name := range SortedNames(dependencies) {
		rng := dependencies[name]
		if res := ValidatePackageName(name); !res.Valid {
			return nil, fmt.Errorf("refusing to install %q: %s", name, res.Errors[0])
		}
		if res := ValidateVersionRange(rng); !res.Valid {
			return nil, fmt.Errorf("refusing to install %q: %s", name, res.Errors[0])
		}
		args = append(args, name+"@"+rng)
	}
	return args, nil
}
