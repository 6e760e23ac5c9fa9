package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ophelios-studio/zephyrus/routecache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the route cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the route cache is present and fresh",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, closeFn, err := openCache(cfg.Cache)
		if err != nil {
			return err
		}
		defer closeFn()
		if cache == nil {
			return errors.New("route cache is disabled")
		}

		out := cmd.OutOrStdout()
		_, ok, err := cache.Read()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "no cached routes")
			return nil
		}
		built, _, err := cache.BuiltAt()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "cached routes built %s\n", built.Format(time.RFC3339))

		modTime, err := sourceTreeModTime()
		if err != nil {
			return err
		}
		if modTime.IsZero() {
			return nil
		}
		outdated, err := cache.IsOutdated(modTime)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "controllers modified %s, outdated: %t\n", modTime.Format(time.RFC3339), outdated)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cached route table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, closeFn, err := openCache(cfg.Cache)
		if err != nil {
			return err
		}
		defer closeFn()
		if cache == nil {
			return errors.New("route cache is disabled")
		}
		if err := cache.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %s and %s\n", routecache.TableKey, routecache.UpdateKey)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd, cacheClearCmd)
}
