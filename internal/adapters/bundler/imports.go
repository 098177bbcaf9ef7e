package bundler

import (
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
)

var (
	// import x from "y"; export { x } from "y"; import { a, b } from "y"
	scriptFromImport = regexp.MustCompile(`(?m)^[ \t]*(?:import|export)\b[^;'"()=]*?\bfrom[ \t]*['"]([^'"\n]+)['"][ \t]*;?[ \t]*$`)
	// import "y"
	scriptBareImport = regexp.MustCompile(`(?m)^[ \t]*import[ \t]*['"]([^'"\n]+)['"][ \t]*;?[ \t]*$`)
	// require("y")
	scriptRequire = regexp.MustCompile(`\brequire\([ \t]*['"]([^'"\n]+)['"][ \t]*\)`)
	// @import "y"; @import url("y");
	styleImport = regexp.MustCompile(`(?m)^[ \t]*@import[ \t]+(?:url\([ \t]*)?['"]([^'"\n]+)['"][ \t]*\)?[^;\n]*;?[ \t]*$`)

	debuggerStatement = regexp.MustCompile(`(?m)^[ \t]*debugger[ \t]*;?[ \t]*$`)
)

// importRef is one import statement found in a module.
type importRef struct {
	specifier string
	// start and end delimit the statement in the source.
	start, end int
	// inline is set when the statement is replaced by the imported module.
	inline bool
}

// scanImports returns the import statements of src in source order.
func scanImports(kind domain.TargetKind, src []byte) []importRef {
	var refs []importRef
	collect := func(re *regexp.Regexp, inline bool) {
		for _, m := range re.FindAllSubmatchIndex(src, -1) {
			refs = append(refs, importRef{
				specifier: string(src[m[2]:m[3]]),
				start:     m[0],
				end:       m[1],
				inline:    inline,
			})
		}
	}

	if kind == domain.KindStyle {
		collect(styleImport, true)
	} else {
		collect(scriptFromImport, true)
		collect(scriptBareImport, true)
		collect(scriptRequire, false)
	}

	slices.SortFunc(refs, func(a, b importRef) int { return a.start - b.start })
	return refs
}

// isExternal reports whether specifier points outside the file system.
func isExternal(specifier string) bool {
	for _, prefix := range []string{"http://", "https://", "//", "data:"} {
		if strings.HasPrefix(specifier, prefix) {
			return true
		}
	}
	return false
}

// strip removes the inlined statements of refs from src.
func strip(src []byte, refs []importRef, resolved []string) []byte {
	out := make([]byte, 0, len(src))
	last := 0
	for i, ref := range refs {
		if !ref.inline || resolved[i] == "" {
			continue
		}
		out = append(out, src[last:ref.start]...)
		last = ref.end
	}
	return append(out, src[last:]...)
}
