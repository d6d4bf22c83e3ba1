// Package autoload configures the global logger from the LOG_* environment
// at import time. Blank-import it from main.
package autoload

import (
	configx "github.com/sudeep-c/NEXTGENMARKETER/pkg/config"
	logx "github.com/sudeep-c/NEXTGENMARKETER/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*cfg)
}
