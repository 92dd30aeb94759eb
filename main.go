package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/illarion/ledgerlock/cmd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(os.Args[2:])
	case "add":
		runAdd(os.Args[2:])
	case "ls", "list":
		runLs(os.Args[2:])
	case "rm":
		runRm(os.Args[2:])
	case "update":
		runUpdate(os.Args[2:])
	case "budget":
		runBudget(os.Args[2:])
	case "budgets":
		runBudgets(os.Args[2:])
	case "metrics":
		runMetrics(os.Args[2:])
	case "history":
		runHistory(os.Args[2:])
	case "backup":
		runBackup(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	case "status":
		runStatus(os.Args[2:])
	case "keyring":
		runKeyring(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Init()
}

func runAdd(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	description := fs.String("description", "", "Transaction description")
	amount := fs.Float64("amount", 0, "Signed amount (positive inflow, negative outflow)")
	date := fs.String("date", "", "Calendar day, YYYY-MM-DD (default today)")
	category := fs.String("category", "", "Category")
	account := fs.String("account", "", "Account identifier")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Add(*description, *amount, *date, *category, *account)
}

func runLs(args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	limit := fs.Int("limit", 0, "Maximum number of transactions (default 100)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.List(*limit)
}

func runRm(args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: ledgerlock rm <transaction-id>")
		os.Exit(1)
	}

	cmd.Remove(fs.Arg(0))
}

func runUpdate(args []string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.String("id", "", "Transaction id")
	description := fs.String("description", "", "Transaction description")
	amount := fs.Float64("amount", 0, "Signed amount")
	date := fs.String("date", "", "Calendar day, YYYY-MM-DD")
	category := fs.String("category", "", "Category")
	account := fs.String("account", "", "Account identifier")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Update(*id, *description, *amount, *date, *category, *account)
}

func runBudget(args []string) {
	fs := flag.NewFlagSet("budget", flag.ExitOnError)
	id := fs.String("id", "", "Budget id (empty to create)")
	category := fs.String("category", "", "Budget category")
	amount := fs.Float64("amount", 0, "Allocated amount")
	spent := fs.Float64("spent", 0, "Spent running total")
	period := fs.String("period", "monthly", "Budget period (monthly, weekly, ...)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.SetBudget(*id, *category, *amount, *spent, *period)
}

func runBudgets(args []string) {
	fs := flag.NewFlagSet("budgets", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Budgets()
}

func runMetrics(args []string) {
	fs := flag.NewFlagSet("metrics", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Metrics()
}

func runHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	days := fs.Int("days", 30, "Trailing window in days")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.History(*days)
}

func runBackup(args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: ledgerlock backup <path>")
		os.Exit(1)
	}

	cmd.Backup(fs.Arg(0))
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Verify()
}

func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Status()
}

func runKeyring(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ledgerlock keyring <save|delete|status>")
		os.Exit(1)
	}
	switch args[0] {
	case "save":
		cmd.KeyringSave()
	case "delete":
		cmd.KeyringDelete()
	case "status":
		cmd.KeyringStatus()
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("ledgerlock - encrypted local-first personal-finance ledger")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ledgerlock <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init        Create an encrypted ledger store in the current directory")
	fmt.Println("  add         Add a transaction")
	fmt.Println("  ls, list    List the most recent transactions")
	fmt.Println("  update      Update a transaction")
	fmt.Println("  rm          Delete a transaction by id")
	fmt.Println("  budget      Create or replace a budget")
	fmt.Println("  budgets     List budgets")
	fmt.Println("  metrics     Show derived financial metrics")
	fmt.Println("  history     Show per-day balance history")
	fmt.Println("  backup      Write an encrypted point-in-time copy of the store")
	fmt.Println("  verify      Run the store integrity check")
	fmt.Println("  status      Show store status (no password required)")
	fmt.Println("  keyring     Manage the password stored in the OS keyring")
	fmt.Println("  help        Show this help")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ledgerlock init")
	fmt.Println("  ledgerlock add -description \"salary\" -amount 2500 -date 2026-08-01 -account main")
	fmt.Println("  ledgerlock add -description \"groceries\" -amount -84.20 -category food -account main")
	fmt.Println("  ledgerlock metrics")
	fmt.Println("  ledgerlock history -days 90")
	fmt.Println("  ledgerlock backup ledger-backup.db")
	fmt.Println()
	fmt.Println("The password is read from LEDGERLOCK_PASSWORD, the OS keyring,")
	fmt.Println("or an interactive prompt, in that order.")
}
