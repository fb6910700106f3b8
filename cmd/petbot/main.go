package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

const Version = "v0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "petbot",
		Short: "petbot - mascota virtual sobre Business Messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if version, _ := cmd.Flags().GetBool("version"); version {
				fmt.Println(Version)
				return nil
			}
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Archivo .env opcional (el entorno real tiene prioridad)")
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(decayCmd)
	rootCmd.AddCommand(catalogCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
