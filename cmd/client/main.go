package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Skotchmaster/product_catalog/internal/client"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: client [-server URL] [-state FILE] COMMAND [ARGS]

commands:
  register EMAIL PASSWORD NAME
  login    EMAIL PASSWORD
  logout
  list
  search   QUERY
  create   NAME PRICE [DESCRIPTION]
  update   ID NAME PRICE [DESCRIPTION]
  delete   ID`)
	os.Exit(2)
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "auth-store.json"
	}
	return filepath.Join(home, ".product_catalog", "auth-store.json")
}

func main() {
	server := flag.String("server", "http://localhost:8080", "catalog server base URL")
	statePath := flag.String("state", defaultStatePath(), "path to the persisted auth state")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	store := client.NewStore(client.NewAPI(*server), *statePath)
	if err := store.Load(); err != nil {
		log.Fatalf("load state: %v", err)
	}

	ctx := context.Background()
	if err := run(ctx, store, args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, store *client.Store, args []string) error {
	switch cmd, rest := args[0], args[1:]; cmd {
	case "register":
		if len(rest) != 3 {
			usage()
		}
		if err := store.Register(ctx, rest[0], rest[1], rest[2]); err != nil {
			return err
		}
		st := store.Snapshot()
		fmt.Printf("registered and logged in as %s (%s)\n", st.User.Name, st.User.Email)

	case "login":
		if len(rest) != 2 {
			usage()
		}
		if err := store.Login(ctx, rest[0], rest[1]); err != nil {
			return err
		}
		st := store.Snapshot()
		fmt.Printf("logged in as %s (%s)\n", st.User.Name, st.User.Email)

	case "logout":
		if err := store.Logout(); err != nil {
			return err
		}
		fmt.Println("logged out")

	case "list":
		if err := store.FetchProducts(ctx); err != nil {
			return err
		}
		for _, p := range store.Snapshot().Products {
			fmt.Printf("%s\t%s\t%.2f\t%s\n", p.ID, p.Name, p.Price, p.Description)
		}

	case "search":
		if len(rest) != 1 {
			usage()
		}
		res, err := store.Search(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Printf("%d match(es)\n", res.Total)
		for _, p := range res.Products {
			fmt.Printf("%s\t%s\t%.2f\t%s\n", p.ID, p.Name, p.Price, p.Description)
		}

	case "create":
		if len(rest) < 2 {
			usage()
		}
		in, err := productInput(rest[0], rest[1], rest[2:])
		if err != nil {
			return err
		}
		prod, err := store.CreateProduct(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("created %s\n", prod.ID)

	case "update":
		if len(rest) < 3 {
			usage()
		}
		in, err := productInput(rest[1], rest[2], rest[3:])
		if err != nil {
			return err
		}
		prod, err := store.UpdateProduct(ctx, rest[0], in)
		if err != nil {
			return err
		}
		fmt.Printf("updated %s\n", prod.ID)

	case "delete":
		if len(rest) != 1 {
			usage()
		}
		if err := store.DeleteProduct(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", rest[0])

	default:
		usage()
	}
	return nil
}

func productInput(name, price string, desc []string) (client.ProductInput, error) {
	p, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return client.ProductInput{}, fmt.Errorf("invalid price %q: %w", price, err)
	}
	in := client.ProductInput{Name: name, Price: p}
	if len(desc) > 0 {
		in.Description = desc[0]
	}
	return in, nil
}
