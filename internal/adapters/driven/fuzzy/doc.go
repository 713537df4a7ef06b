// Package fuzzy scores free-text queries against operation names and
// descriptions using Levenshtein edit distance over normalised tokens.
package fuzzy
