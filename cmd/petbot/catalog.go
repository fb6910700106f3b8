package main

import (
	"fmt"
	"strings"

	"petbot/internal/domain/pets"
	"petbot/internal/platform/config"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [path]",
	Short: "Valida e imprime el catálogo (default: el embebido o CATALOG_PATH)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			path = cfg.CatalogPath
		}
		cat, err := pets.LoadCatalog(path)
		if err != nil {
			return err
		}

		fmt.Println("Species:")
		for _, s := range cat.Species() {
			colors := s.Colors
			if len(colors) == 0 {
				colors = []string{s.DefaultColor}
			}
			fmt.Printf("  %-10s %-12s %s\n", s.Key, s.Name, strings.Join(colors, ","))
		}
		printItems("Foods:", cat.Foods())
		printItems("Games:", cat.Games())
		return nil
	},
}

func printItems(title string, items []pets.Item) {
	fmt.Println(title)
	for _, it := range items {
		if it.HasRange() {
			fmt.Printf("  %s  %d-%d\n", it.Token, it.Min, it.Max)
			continue
		}
		fmt.Printf("  %s\n", it.Token)
	}
}
