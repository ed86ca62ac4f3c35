package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// flagValue reads a flag registered in init. A failed lookup means the name or
// type in code does not match the registration, so it panics.
func flagValue[T any](get func(string) (T, error), name string) T {
	val, err := get(name)
	if err != nil {
		panic(fmt.Sprintf("flag --%s: %v", name, err))
	}
	return val
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	return flagValue(cmd.Flags().GetBool, name)
}

func mustGetString(cmd *cobra.Command, name string) string {
	return flagValue(cmd.Flags().GetString, name)
}
