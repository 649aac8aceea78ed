package utils

import (
	"log"
	"os"
)

// InitLogger builds the process logger used by the request middleware and
// the startup path.
func InitLogger() *log.Logger {
	return log.New(os.Stdout, "[Learning Portal] ", log.LstdFlags|log.LUTC)
}
