package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-payhook/core"
)

var _ gocmd.Querier[GetTransactionMessage, core.Verification] = (*GetTransactionQuery)(nil)
