// Command cosatkactl administers the economy storage outside the bot.
package main

import (
	"context"
	"os"
	"time"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/logger"
)

func main() {
	start := time.Now()
	cmd, err := newRootCmd().ExecuteContextC(context.Background())
	logger.LogCommand(cmd.CommandPath(), time.Since(start), err)
	if err != nil {
		os.Exit(1)
	}
}
