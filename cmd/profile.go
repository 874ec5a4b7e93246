package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit the user profile",
	Long:  "Show the profile. Any of --name, --bio, --location or --avatar updates that field.",
	Args:  cobra.NoArgs,
	RunE:  runProfile,
}

var (
	flagProfileName     string
	flagProfileBio      string
	flagProfileLocation string
	flagProfileAvatar   string
)

func init() {
	profileCmd.Flags().StringVar(&flagProfileName, "name", "", "Display name")
	profileCmd.Flags().StringVar(&flagProfileBio, "bio", "", "Short bio")
	profileCmd.Flags().StringVar(&flagProfileLocation, "location", "", "Location")
	profileCmd.Flags().StringVar(&flagProfileAvatar, "avatar", "", "Avatar image URL")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.svc.Profile(ctx)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	changed := false
	for name, dst := range map[string]*string{
		"name":     &p.Name,
		"bio":      &p.Bio,
		"location": &p.Location,
		"avatar":   &p.AvatarURL,
	} {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
			changed = true
		}
	}

	if changed {
		if err := a.svc.UpdateProfile(ctx, p); err != nil {
			return err
		}
		confirm("Profile updated")
		if flagQuiet {
			return nil
		}
	}

	fmt.Println()
	fmt.Printf("  Name:      %s\n", p.Name)
	fmt.Printf("  Bio:       %s\n", p.Bio)
	fmt.Printf("  Location:  %s\n", p.Location)
	fmt.Printf("  Avatar:    %s\n", p.AvatarURL)
	return nil
}
