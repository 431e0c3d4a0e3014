// Package docs registers the OpenAPI document served under /swagger.
// swagger.json is regenerated from the handler annotations by go generate ./cmd/app.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var document string

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/v1",
	Title:            "Hotel Booking API",
	Description:      "Customers, rooms and bookings for the front desk.",
	InfoInstanceName: swag.Name,
	SwaggerTemplate:  document,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
