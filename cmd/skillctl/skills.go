package main

import (
	"encoding/json"
	"fmt"
	"os"

	"skillcheck/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedSkill is one entry of the seed file.
type seedSkill struct {
	Name string `json:"name"`
}

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Manage the skill catalog",
}

var skillsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Register every skill listed in a seed file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()
		log := logger.Get()

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read seed file %s: %w", path, err)
		}
		var seeds []seedSkill
		if err := json.Unmarshal(raw, &seeds); err != nil {
			return fmt.Errorf("parse seed file %s: %w", path, err)
		}

		ctx := cmd.Context()
		skills, db, err := openSkills(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		seeded := 0
		for _, s := range seeds {
			skill, err := skills.Register(ctx, s.Name)
			if err != nil {
				log.Error("Failed to seed skill", zap.String("name", s.Name), zap.Error(err))
				continue
			}
			seeded++
			log.Info("Skill present", zap.String("name", skill.Name), zap.String("display_name", skill.DisplayName))
		}
		fmt.Printf("%d of %d skills present\n", seeded, len(seeds))
		if seeded < len(seeds) {
			return fmt.Errorf("%d skills could not be seeded", len(seeds)-seeded)
		}
		return nil
	},
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the skill catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		skills, db, err := openSkills(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		list, err := skills.List(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%-30s  %-30s  %s\n", "Name", "Display name", "Created")
		for _, s := range list {
			fmt.Printf("%-30s  %-30s  %s\n", s.Name, s.DisplayName, s.CreatedAt.Format("2006-01-02"))
		}
		fmt.Printf("\n%d skills\n", len(list))
		return nil
	},
}

func init() {
	skillsSeedCmd.Flags().String("file", "configs/seed_data/skills.json", "path to the skill seed file")
	skillsCmd.AddCommand(skillsSeedCmd)
	skillsCmd.AddCommand(skillsListCmd)
}
