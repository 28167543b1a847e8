package receipt

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const receiptSchemaURL = "https://receipt-processor.local/schemas/receipt.schema.json"

//go:embed schema/receipt.schema.json
var receiptSchemaJSON []byte

var receiptSchema = mustCompileSchema(receiptSchemaURL, receiptSchemaJSON)

// mustCompileSchema compiles an embedded schema; a broken schema is a build defect
func mustCompileSchema(url string, data []byte) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
		panic(fmt.Errorf("loading schema %s: %w", url, err))
	}
	schema, err := c.Compile(url)
	if err != nil {
		panic(fmt.Errorf("compiling schema %s: %w", url, err))
	}
	return schema
}

// validateReceiptDocument checks a decoded JSON document against the receipt schema
func validateReceiptDocument(doc interface{}) error {
	if err := receiptSchema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}
	return nil
}
