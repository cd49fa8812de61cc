// Package interp substitutes {{path}} placeholders in template strings using
// dotted-path lookups into a parameter map.
//
// It is the last mile of every translation: plain messages and selected
// plural forms both pass through Interpolate before being returned to the
// caller. Unresolvable placeholders are intentionally left verbatim so that
// missing parameters are visible in rendered output instead of silently
// disappearing.
package interp
