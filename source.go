package glshim

import "strings"

// CombineSources joins the fragments passed to glShaderSource into one
// string. A positive lengths[i] limits fragment i to that many bytes; a nil
// lengths slice or a non-positive entry means the whole fragment is used.
func CombineSources(sources []string, lengths []int32) string {
	var b strings.Builder
	for i, src := range sources {
		if src == "" {
			continue
		}
		if i < len(lengths) && lengths[i] > 0 && int(lengths[i]) < len(src) {
			src = src[:lengths[i]]
		}
		b.WriteString(src)
	}
	return b.String()
}
