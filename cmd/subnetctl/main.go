// Command subnetctl manages a subnet inventory from the command line.
//
// All subnets must be in CIDR notation, e.g. 10.0.0.0/8. Exactly one action
// flag must be given per invocation.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/netops-tools/subnet-inventory/internal/config"
	"github.com/netops-tools/subnet-inventory/internal/domain"
	"github.com/netops-tools/subnet-inventory/internal/inventory"
	"github.com/netops-tools/subnet-inventory/internal/netcalc"
	"github.com/netops-tools/subnet-inventory/internal/storage"
	"github.com/netops-tools/subnet-inventory/internal/storage/file"
	"github.com/netops-tools/subnet-inventory/internal/storage/sql"
	"github.com/netops-tools/subnet-inventory/internal/validation"
)

func main() {
	var add, del, conflict, query, list bool
	flag.BoolVar(&add, "a", false, "Add new subnet to inventory")
	flag.BoolVar(&add, "add", false, "Add new subnet to inventory")
	flag.BoolVar(&del, "d", false, "Delete subnet from inventory")
	flag.BoolVar(&del, "delete", false, "Delete subnet from inventory")
	flag.BoolVar(&conflict, "c", false, "Check if subnet conflicts with any subnets already in inventory")
	flag.BoolVar(&conflict, "conflict", false, "Check if subnet conflicts with any subnets already in inventory")
	flag.BoolVar(&query, "q", false, "Check if a subnet already exists in inventory")
	flag.BoolVar(&query, "query", false, "Check if a subnet already exists in inventory")
	flag.BoolVar(&list, "l", false, "List all subnets in inventory")
	flag.BoolVar(&list, "list", false, "List all subnets in inventory")
	flag.Parse()

	selected := 0
	for _, on := range []bool{add, del, conflict, query, list} {
		if on {
			selected++
		}
	}
	if selected == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if selected > 1 {
		fmt.Fprintln(os.Stderr, "Specify exactly one of -a, -d, -c, -q, -l")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open inventory store: %v", err)
	}
	defer store.Close()

	reserved, err := cfg.Inventory.ReservedNetworks()
	if err != nil {
		log.Fatalf("Invalid reserved ranges: %v", err)
	}
	svc := inventory.New(store, reserved)

	ctx := context.Background()
	in := bufio.NewReader(os.Stdin)

	switch {
	case add:
		err = runAdd(ctx, svc, in)
	case del:
		err = runDelete(ctx, svc, in)
	case conflict:
		err = runConflict(ctx, svc, in)
	case query:
		err = runQuery(ctx, svc, in)
	case list:
		err = runList(ctx, svc)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// openStore opens the configured store. The file driver keeps the original
// flat-file inventory; the SQL drivers share the server's database.
func openStore(cfg *config.Config) (storage.SubnetStore, error) {
	switch cfg.Store.Driver {
	case "file":
		return file.New(cfg.Store.DSN), nil
	default:
		if cfg.Store.Driver == "sqlite3" {
			if err := os.MkdirAll(filepath.Dir(cfg.Store.DSN), 0755); err != nil {
				return nil, err
			}
		}
		return sql.New(cfg.Store.Driver, cfg.Store.DSN)
	}
}

// prompt reads one line of input after printing a label.
func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm loops until the user answers Y or n.
func confirm(in *bufio.Reader, label string) (bool, error) {
	for {
		answer, err := prompt(in, label)
		if err != nil {
			return false, err
		}
		switch answer {
		case "Y":
			return true, nil
		case "n":
			return false, nil
		default:
			fmt.Println("Please select Y or n")
		}
	}
}

func runAdd(ctx context.Context, svc *inventory.Service, in *bufio.Reader) error {
	fmt.Println("Adding a new subnet")

	var name string
	for {
		entered, err := prompt(in, "Please enter a name for your subnet: ")
		if err != nil {
			return err
		}
		if err := validation.ValidateSubnetName(entered); err != nil {
			fmt.Printf("ERROR: %v\n", err)
			continue
		}
		exists, err := svc.NameExists(ctx, entered)
		if err != nil {
			return err
		}
		if exists {
			fmt.Println("ERROR: Name already in use.  Please use a different name.")
			continue
		}
		name = entered
		break
	}

	var cidr string
	for {
		entered, err := prompt(in, "Please enter your subnet in CIDR notation: ")
		if err != nil {
			return err
		}
		if err := validation.ValidateCIDR(entered); err != nil {
			fmt.Println("ERROR: Address is not in CIDR format.  Addresses must be in CIDR format, e.g. 10.0.0.0/8")
			continue
		}
		exists, err := svc.AddressExists(ctx, entered)
		if err != nil {
			return err
		}
		if exists {
			fmt.Println("Subnet already in inventory.")
			continue
		}
		cidr = entered
		break
	}

	proposal, err := svc.ProposeAdd(ctx, name, cidr)
	if err != nil {
		if errors.Is(err, domain.ErrReservedRange) {
			fmt.Println("Subnet is reserved or conflicts with a reserved subnet and cannot be added")
			return nil
		}
		return err
	}

	if len(proposal.Conflicts) > 0 {
		fmt.Println("This subnet conflicts with one or more subnets already in the inventory:")
		for _, c := range proposal.Conflicts {
			fmt.Printf("  %s %s\n", c.Name, c.CIDR)
		}
		ok, err := confirm(in, "Are you sure you wish to add it? (Y/n): ")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Did not add subnet to inventory")
			return nil
		}
	}

	if err := svc.CommitAdd(ctx, &domain.Subnet{Name: name, CIDR: cidr}); err != nil {
		return err
	}
	fmt.Printf("Subnet added to inventory: %s %s\n", name, cidr)
	return nil
}

func runDelete(ctx context.Context, svc *inventory.Service, in *bufio.Reader) error {
	fmt.Println("Deleting subnet")

	name, err := prompt(in, "Please enter the name of the subnet you would like to delete: ")
	if err != nil {
		return err
	}

	subnet, err := svc.Get(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			fmt.Println("No subnet with that name found in inventory")
			return nil
		}
		return err
	}

	ok, err := confirm(in, fmt.Sprintf("Are you sure you want to delete the %s subnet? This action cannot be undone. (Y/n): ", name))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Subnet not deleted")
		return nil
	}

	if _, err := svc.Remove(ctx, name); err != nil {
		return err
	}
	fmt.Printf("%s subnet (%s) removed from inventory\n", subnet.Name, subnet.CIDR)
	return nil
}

func runConflict(ctx context.Context, svc *inventory.Service, in *bufio.Reader) error {
	fmt.Println("Checking for subnet conflicts")

	cidr, err := prompt(in, "Please enter the subnet you would like to check in CIDR notation: ")
	if err != nil {
		return err
	}
	if err := validation.ValidateCIDR(cidr); err != nil {
		fmt.Println("ERROR: Address is not in CIDR format.  Addresses must be in CIDR format, e.g. 10.0.0.0/8")
		return nil
	}

	candidate, err := netcalc.Parse(cidr)
	if err != nil {
		return err
	}

	conflicts, err := svc.FindConflicts(ctx, candidate)
	if err != nil {
		return err
	}

	if len(conflicts) == 0 {
		fmt.Println("No conflicting subnets in inventory")
		return nil
	}
	fmt.Println("The following subnet conflicts were found: ")
	for _, c := range conflicts {
		fmt.Printf("Conflicting subnet: %s %s\n", c.Name, c.CIDR)
	}
	return nil
}

func runQuery(ctx context.Context, svc *inventory.Service, in *bufio.Reader) error {
	fmt.Println("Checking for subnet in inventory")

	cidr, err := prompt(in, "Please enter the subnet you would like to check in CIDR notation: ")
	if err != nil {
		return err
	}
	if err := validation.ValidateCIDR(cidr); err != nil {
		fmt.Println("ERROR: Address is not in CIDR format.  Addresses must be in CIDR format, e.g. 10.0.0.0/8")
		return nil
	}

	exists, err := svc.AddressExists(ctx, cidr)
	if err != nil {
		return err
	}
	if !exists {
		fmt.Println("Subnet does not exist in inventory")
		return nil
	}

	// Show which record holds the address.
	candidate, err := netcalc.Parse(cidr)
	if err != nil {
		return err
	}
	subnets, err := svc.List(ctx)
	if err != nil {
		return err
	}
	for _, subnet := range subnets {
		network, err := subnet.Network()
		if err != nil {
			continue
		}
		if network.Equal(candidate) {
			fmt.Printf("Subnet exists in inventory: %s %s\n", subnet.Name, subnet.CIDR)
			return nil
		}
	}
	fmt.Println("Subnet exists in inventory")
	return nil
}

func runList(ctx context.Context, svc *inventory.Service) error {
	fmt.Println("Displaying all subnets")

	subnets, err := svc.List(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Subnet Name - Subnet Address")
	for _, subnet := range subnets {
		fmt.Printf("%s - %s\n", subnet.Name, subnet.CIDR)
	}
	return nil
}
