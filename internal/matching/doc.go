// Package matching scores lost item reports against found item reports and
// ranks candidate collections by score.
//
// Scoring is a weighted sum of five factors: category (a hard gate), location,
// date proximity, title overlap and description overlap. Everything here is
// pure computation over records already loaded by the caller; nothing in this
// package touches storage, the clock or shared state.
package matching
