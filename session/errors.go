package session

import (
	"context"
	"errors"

	"github.com/DachengChen/paiSchema/ai"
	"github.com/DachengChen/paiSchema/db"
	"github.com/DachengChen/paiSchema/diagram"
	"github.com/DachengChen/paiSchema/schema"
	"github.com/DachengChen/paiSchema/store"
)

// ErrorKind classifies why an operation failed.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInput
	KindCanceled
	KindTransport
	KindParse
	KindMalformedSchema
	KindStoreConnection
	KindStoreWrite
	KindRender
	KindDatabase
	KindCheck
	KindUnknown
)

var kindNames = map[ErrorKind]string{
	KindNone:            "none",
	KindInput:           "input",
	KindCanceled:        "canceled",
	KindTransport:       "transport",
	KindParse:           "parse",
	KindMalformedSchema: "malformed schema",
	KindStoreConnection: "store connection",
	KindStoreWrite:      "store write",
	KindRender:          "render",
	KindDatabase:        "database",
	KindCheck:           "ddl check",
	KindUnknown:         "unknown",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// InputError reports a request that could not start: a missing model,
// an unknown query type, an unconfigured collaborator.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

// KindOf classifies err. A nil error is KindNone.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var (
		inputErr     *InputError
		transportErr *ai.TransportError
		parseErr     *ai.ParseError
		malformedErr *schema.MalformedSchemaError
		storeConnErr *store.ConnectionError
		writeErr     *store.WriteError
		renderErr    *diagram.RenderError
		dbConnErr    *db.ConnectionError
		checkErr     *db.CheckError
	)
	switch {
	case errors.As(err, &inputErr), errors.Is(err, db.ErrNoStatements):
		return KindInput
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &malformedErr):
		return KindMalformedSchema
	case errors.As(err, &storeConnErr):
		return KindStoreConnection
	case errors.As(err, &writeErr):
		return KindStoreWrite
	case errors.As(err, &renderErr):
		return KindRender
	case errors.As(err, &checkErr):
		return KindCheck
	case errors.As(err, &dbConnErr):
		return KindDatabase
	default:
		return KindUnknown
	}
}
