// Package naming provides the name comparison rules shared by the schema
// model and the flattener.
//
// Attribute names are unique per entity under Unicode case folding, so
// "OrderID", "orderid" and "ORDERID" collide. Fold produces the comparison
// key; EqualFold compares two names directly.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
