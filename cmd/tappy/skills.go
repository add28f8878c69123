package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byrencheema/tappy/pkg/browseruse"
	"github.com/byrencheema/tappy/pkg/skills"
	"github.com/byrencheema/tappy/pkg/skills/builtin"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the registered skills and their parameter schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := skills.NewRegistry()
		if err := builtin.Register(registry, browseruse.New(browseruse.Config{})); err != nil {
			return err
		}

		fmt.Println(registry.Catalogue())
		return nil
	},
}
