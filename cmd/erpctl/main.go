// erpctl drives the ERP API from the terminal
package main

import (
	"os"

	"github.com/erp/client/internal/interfaces/cli/command"
)

func main() {
	os.Exit(command.Execute())
}
