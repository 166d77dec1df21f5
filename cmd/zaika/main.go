package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/zaika-app/zaika/database/migrations"
)

var rootCmd = &cobra.Command{
	Use:   "zaika",
	Short: "Zaika food delivery API",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
