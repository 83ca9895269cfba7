package types

import "github.com/m-mizutani/goerr/v2"

// Version is overwritten at build time via -ldflags
var Version = "dev"

// TagUpstream marks errors returned by the source-control hosting API.
// The orchestrator treats tagged errors as per-repository failures and
// keeps going with the remaining repositories.
var TagUpstream = goerr.NewTag("upstream")
