package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/lifeline/internal/albums"
)

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "Manage date-range albums",
	Long:  `List, create and show albums stored in the configured database.`,
}

var albumsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List albums, newest first",
	Args:  cobra.NoArgs,
	RunE:  runAlbumsList,
}

var albumsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an album from a date range",
	Long: `Create an album covering every photo between two days. The earliest photo
becomes the cover. Creating an album for a range without photos fails.

Examples:
  lifeline albums create --from 2024-06-01 --to 2024-06-14 --title "Summer trip"`,
	Args: cobra.NoArgs,
	RunE: runAlbumsCreate,
}

var albumsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an album and its photos per day",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlbumsShow,
}

func init() {
	rootCmd.AddCommand(albumsCmd)
	albumsCmd.AddCommand(albumsListCmd, albumsCreateCmd, albumsShowCmd)

	albumsListCmd.Flags().String("query", "", "Only albums whose title contains the query (accent-insensitive)")

	addDayFlags(albumsCreateCmd)
	albumsCreateCmd.Flags().String("title", "", "Album title")
}

func runAlbumsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	store, err := b.requireAlbums()
	if err != nil {
		return err
	}

	list, err := store.List(ctx, mustGetString(cmd, "query"))
	if err != nil {
		return fmt.Errorf("failed to list albums: %w", err)
	}

	printAlbums(cmd.OutOrStdout(), list, b.loc)
	return nil
}

func runAlbumsCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	store, err := b.requireAlbums()
	if err != nil {
		return err
	}

	from, to, err := parseDayFlags(cmd, b.loc)
	if err != nil {
		return err
	}

	album, err := albums.NewService(b.library, store, b.loc).Create(ctx, albums.CreateRequest{
		Title: mustGetString(cmd, "title"),
		From:  from,
		To:    to,
	})
	if errors.Is(err, albums.ErrEmptyRange) {
		return errors.New("no photos in the selected date range, album not created")
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Album created")
	printAlbum(out, album, b.loc)
	return nil
}

func runAlbumsShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	store, err := b.requireAlbums()
	if err != nil {
		return err
	}

	album, groups, err := albums.NewService(b.library, store, b.loc).Timeline(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load album %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	printAlbum(out, album, b.loc)
	fmt.Fprintln(out)
	printDays(out, groups)
	return nil
}
