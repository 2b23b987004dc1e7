// Package xmldoc provides the mutable in-memory document model the
// correction engine operates on: locator-based lookup of a single node,
// append-only child creation, and repeatable serialization.
//
// A locator is a descendant-anchored path of element labels, e.g.
// "//ReferenceInformation/OrderId/IdValue": the first segment may match
// an element at any depth, every following segment must be a direct
// child. Resolution returns the first structural match in document
// order.
package xmldoc
