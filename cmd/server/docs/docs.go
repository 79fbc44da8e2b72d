// Package docs holds the Swagger document for the Recall API.
package docs

import "github.com/swaggo/swag"

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "recall.natwelch.com",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Recall API",
	Description:      "Memory-training games, sessions, rounds and performance tracking",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  string(swaggerJSON),
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
