package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	appctx "productdesk/internal/core/context"
	"productdesk/internal/core/security"
)

// NewPolicyCommand creates the policy command group.
func NewPolicyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect the access policy",
	}
	cmd.AddCommand(newPolicyCheckCommand())
	return cmd
}

func newPolicyCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [policy.yaml]",
		Short: "Compile a policy and print its decision table",
		Long: `Compile the access policy (the built-in default when no file is given)
and print, for every operation, whether Admin, Manager and anonymous
callers are allowed.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			policy, err := security.LoadPolicy(path)
			if err != nil {
				return err
			}
			gate, err := security.NewGate(policy)
			if err != nil {
				return err
			}
			return printDecisionTable(cmd, gate)
		},
	}
}

func printDecisionTable(cmd *cobra.Command, gate *security.Gate) error {
	principals := []struct {
		name string
		user *appctx.UserContext
	}{
		{security.RoleAdmin, &appctx.UserContext{UserID: "check", Roles: []string{security.RoleAdmin}}},
		{security.RoleManager, &appctx.UserContext{UserID: "check", Roles: []string{security.RoleManager}}},
		{"anonymous", nil},
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprint(w, "OPERATION")
	for _, p := range principals {
		fmt.Fprintf(w, "\t%s", p.name)
	}
	fmt.Fprintln(w, "\tRULE")

	policy := gate.Policy()
	for _, op := range security.Operations {
		fmt.Fprint(w, op)
		for _, p := range principals {
			fmt.Fprintf(w, "\t%s", verdict(gate.Authorize(p.user, op)))
		}
		fmt.Fprintf(w, "\t%s\n", policy[op])
	}
	return w.Flush()
}

func verdict(allowed bool) string {
	if allowed {
		return "allow"
	}
	return "deny"
}
