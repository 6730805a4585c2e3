// Package generator renders a flattened schema as Go source.
//
// Each entity becomes one exported struct and each attribute one field, in
// attribute order:
//
//	src, err := generator.Generate(result.Schema, generator.WithPackageName("orders"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.WriteFile("orders/model.go", src, 0o600)
//
// Attribute types map to string, int64, bool and time.Time. Multi-valued
// attributes become slices. Field and type names are PascalCase with Go
// initialisms (order_id becomes OrderID); clashes after conversion get a
// numeric suffix. JSON tags keep the original attribute names, and every
// field except the key is omitempty.
//
// Output is passed through goimports, so the file is gofmt-clean and
// imports exactly what it uses.
package generator
