package telemetry

import (
	"strconv"

	"go.opentelemetry.io/otel/attribute"
)

func methodAttr(method string) attribute.KeyValue {
	return attribute.String("method", method)
}

func hostAttr(host string) attribute.KeyValue {
	return attribute.String("host", host)
}

func statusAttr(status int) attribute.KeyValue {
	return attribute.String("status", strconv.Itoa(status))
}

func codeAttr(code string) attribute.KeyValue {
	if code == "" {
		code = "none"
	}
	return attribute.String("code", code)
}

func resultAttr(result string) attribute.KeyValue {
	return attribute.String("result", result)
}

func kindAttr(kind string) attribute.KeyValue {
	return attribute.String("kind", kind)
}
