package resolve

import (
	"path/filepath"
	"strings"
)

// ModuleNameFromSpecifier reduces an import specifier to its package name:
// deep imports drop the subpath, scoped packages keep the scope.
func ModuleNameFromSpecifier(specifier string) string {
	parts := strings.Split(specifier, "/")
	if len(parts) == 0 {
		return specifier
	}
	if strings.HasPrefix(parts[0], "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// ExtractModuleName recovers a package's logical name from the path of a
// declaration file inside a dependency. Three layouts are handled: plain
// node_modules/<pkg>/..., scoped node_modules/@scope/pkg/..., and
// package-manager virtual stores of the shape
// .../<store>/<pkg>@<version>/node_modules/<pkg>/... (with @scope+pkg@version
// encoding for scoped packages). When nothing matches, the literal path is
// returned as a best-effort module name; this never fails.
func ExtractModuleName(path string) string {
	normalized := filepath.ToSlash(path)

	// The last node_modules segment names the package that owns the file,
	// which also covers virtual-store layouts nesting node_modules deeper.
	const marker = "node_modules/"
	if idx := strings.LastIndex(normalized, marker); idx >= 0 {
		rest := normalized[idx+len(marker):]
		parts := strings.Split(rest, "/")
		if len(parts) > 0 && parts[0] != "" {
			if strings.HasPrefix(parts[0], "@") && len(parts) >= 2 {
				return parts[0] + "/" + parts[1]
			}
			return parts[0]
		}
	}

	// Virtual-store entry without a trailing node_modules component:
	// .pnpm/<pkg>@<version>/... where scoped packages encode the scope
	// separator as '+'.
	if name := virtualStoreEntryName(normalized); name != "" {
		return name
	}

	return path
}

func virtualStoreEntryName(normalized string) string {
	var rest string
	if i := strings.Index(normalized, "/.pnpm/"); i >= 0 {
		rest = normalized[i+len("/.pnpm/"):]
	} else if strings.HasPrefix(normalized, ".pnpm/") {
		rest = normalized[len(".pnpm/"):]
	} else {
		return ""
	}
	entry, _, _ := strings.Cut(rest, "/")
	if entry == "" {
		return ""
	}

	// Strip the @<version> suffix; scoped entries start with '@', so the
	// version separator is the last '@'.
	if at := strings.LastIndex(entry, "@"); at > 0 {
		entry = entry[:at]
	}
	return strings.ReplaceAll(entry, "+", "/")
}

// IsDependencyPath reports whether a file path lives inside an installed
// package rather than the workspace sources.
func IsDependencyPath(path string) bool {
	normalized := filepath.ToSlash(path)
	return strings.Contains(normalized, "node_modules/") || strings.Contains(normalized, "/.pnpm/")
}
