package bus

import (
	"context"

	"github.com/yungbote/valuepm-backend/internal/portfolio"
)

// Bus fans portfolio events out to other processes.
type Bus interface {
	portfolio.Notifier
	Subscribe(ctx context.Context, onEvent func(ev portfolio.Event)) error
	Close() error
}
