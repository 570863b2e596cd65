// cmd/storefront/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/config"
	"github.com/your-org/storefront-client/internal/pkg/logging"
	"github.com/your-org/storefront-client/internal/pkg/token"
	"github.com/your-org/storefront-client/internal/session"
	"github.com/your-org/storefront-client/internal/signup"
	"github.com/your-org/storefront-client/internal/state"
)

type app struct {
	cfg        *config.Config
	sessions   *session.Manager
	auth       *api.AuthAPI
	products   *api.ProductsAPI
	categories *api.CategoriesAPI
	cart       *state.Cart
	favorites  *state.Favorites
	signup     *signup.Flow
	in         *bufio.Reader
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg)
	logger.Infof("Starting %s v%s", cfg.App.Name, cfg.App.Version)

	store := token.NewStore(cfg)
	sessions := session.NewManager(store)

	apiClient := api.NewClient(cfg.APIURL(), sessions, logger, cfg.API.RequestTimeout)
	authClient := api.NewClient(cfg.AuthURL(), sessions, logger, cfg.API.RequestTimeout)

	authAPI := api.NewAuthAPI(authClient)
	cartAPI := api.NewCartAPI(apiClient)
	wishAPI := api.NewWishlistAPI(apiClient)

	a := &app{
		cfg:        cfg,
		sessions:   sessions,
		auth:       authAPI,
		products:   api.NewProductsAPI(apiClient),
		categories: api.NewCategoriesAPI(apiClient),
		cart:       state.NewCart(cartAPI, sessions),
		favorites:  state.NewFavorites(wishAPI, sessions),
		signup:     signup.NewFlow(authAPI, cfg, logger),
		in:         bufio.NewReader(os.Stdin),
	}
	defer a.signup.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if sessions.IsAuthenticated() {
		a.cart.Refresh(ctx)
		a.favorites.Refresh(ctx)
	}

	a.repl(ctx)
	logger.Info("Bye")
}

func (a *app) repl(ctx context.Context) {
	fmt.Printf("%s. Type 'help' for commands.\n", a.cfg.App.Name)
	for {
		fmt.Print("> ")
		line, err := a.in.ReadString('\n')
		if err != nil {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
		if args[0] == "exit" || args[0] == "quit" {
			return
		}
		a.dispatch(ctx, args)
	}
}

func (a *app) dispatch(ctx context.Context, args []string) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var err error
	switch args[0] {
	case "help":
		a.printHelp()
	case "signup":
		err = a.runSignup(ctx)
	case "login":
		err = a.runLogin(ctx)
	case "logout":
		a.sessions.SignOut()
		fmt.Println("Signed out.")
	case "whoami":
		a.printWhoami()
	case "products":
		err = a.listProducts(ctx, args[1:])
	case "product":
		err = a.showProduct(ctx, args[1:])
	case "search":
		err = a.searchProducts(ctx, args[1:])
	case "categories":
		err = a.listCategories(ctx)
	case "cart":
		err = a.cartCommand(ctx, args[1:])
	case "wish":
		err = a.wishCommand(ctx, args[1:])
	case "profile":
		err = a.showProfile(ctx)
	case "passwd":
		err = a.changePassword(ctx)
	default:
		fmt.Printf("Unknown command %q. Type 'help'.\n", args[0])
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func (a *app) printHelp() {
	fmt.Print(`Commands:
  signup                     start account sign-up
  login / logout / whoami    session management
  products [page]            browse the catalog
  product <id>               product details
  search <keyword>           search products
  categories                 list categories
  cart [add <productId> [qty] | rm <itemId> | qty <itemId> <n> | clear]
  wish [add <productId> | rm <productId>]
  profile                    show your profile
  passwd                     change password
  exit
`)
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (a *app) promptPassword(label string) string {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		// not a terminal, fall back to plain read
		return a.prompt("")
	}
	return string(raw)
}

func (a *app) runSignup(ctx context.Context) error {
	name := a.prompt("Name: ")
	email := a.prompt("Email: ")
	if err := a.signup.SubmitEmail(ctx, name, email); err != nil {
		return err
	}
	fmt.Printf("Verification email sent to %s. Waiting for you to click the link...\n", a.signup.Email())

	for a.signup.Step() == signup.StepEmail {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
		if wait := a.signup.ResendWait(); wait > 0 {
			fmt.Printf("\rResend available in %2ds ", wait)
		}
	}
	fmt.Println("\nEmail verified.")

	for {
		password := a.promptPassword("Password (min 8 chars): ")
		confirm := a.promptPassword("Confirm password: ")
		agree := strings.EqualFold(a.prompt("Accept terms of service? [y/N]: "), "y")
		if err := a.signup.SubmitPassword(ctx, password, confirm, agree); err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		break
	}
	fmt.Println("Account created. You can log in now.")
	return nil
}

func (a *app) runLogin(ctx context.Context) error {
	user := a.prompt("Email or username: ")
	password := a.promptPassword("Password: ")

	resp, err := a.auth.SignIn(ctx, user, password)
	if err != nil {
		return err
	}
	a.sessions.Establish(resp.AccessToken, token.Identity{
		UserID:   resp.UserID,
		Email:    resp.Email,
		Username: resp.Username,
		Name:     resp.Name,
	})
	fmt.Printf("Welcome back, %s.\n", resp.Name)

	a.cart.Refresh(ctx)
	a.favorites.Refresh(ctx)
	return nil
}

func (a *app) printWhoami() {
	if !a.sessions.IsAuthenticated() {
		fmt.Println("Not signed in.")
		return
	}
	if claims := a.sessions.Current(); claims != nil {
		fmt.Printf("%s <%s>\n", claims.Name, claims.Email)
	}
}

func (a *app) listProducts(ctx context.Context, args []string) error {
	opts := api.ProductListOptions{Size: 20}
	if len(args) > 0 {
		page, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("page must be a number")
		}
		opts.Page = page
	}
	result, err := a.products.List(ctx, opts)
	if err != nil {
		return err
	}
	for i := range result.Products {
		printProductLine(&result.Products[i], a.favorites)
	}
	fmt.Printf("Page %d/%d, %d products total.\n", result.CurrentPage+1, result.TotalPages, result.TotalElements)
	return nil
}

func (a *app) showProduct(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: product <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("product id must be a number")
	}
	p, err := a.products.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("#%d %s\n", p.ID, p.Name)
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	fmt.Printf("Price: %.2f", p.UnitPrice())
	if rate := p.DiscountRate(); rate > 0 {
		fmt.Printf(" (%.0f%% off)", rate)
	}
	fmt.Println()
	if p.Category != nil {
		fmt.Printf("Category: %s\n", p.Category.Name)
	}
	return nil
}

func (a *app) searchProducts(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: search <keyword>")
	}
	result, err := a.products.Search(ctx, strings.Join(args, " "), 0, 20)
	if err != nil {
		return err
	}
	for i := range result.Products {
		printProductLine(&result.Products[i], a.favorites)
	}
	fmt.Printf("%d matches for %q.\n", result.TotalElements, result.Keyword)
	return nil
}

func (a *app) listCategories(ctx context.Context) error {
	list, err := a.categories.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range list.Categories {
		fmt.Printf("#%d %s\n", c.ID, c.Name)
		for _, child := range c.Children {
			fmt.Printf("    #%d %s\n", child.ID, child.Name)
		}
	}
	return nil
}

func (a *app) cartCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if err := a.cart.Refresh(ctx); err != nil {
			return err
		}
		items := a.cart.Items()
		if len(items) == 0 {
			fmt.Println("Your cart is empty.")
			return nil
		}
		for _, item := range items {
			fmt.Printf("[%d] %s x%d @ %.2f\n", item.ID, item.ProductName, item.Quantity, item.Price)
		}
		fmt.Printf("%d items, total %.2f\n", a.cart.TotalItems(), a.cart.TotalPrice())
		return nil
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: cart add <productId> [qty]")
		}
		productID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("product id must be a number")
		}
		qty := 1
		if len(args) > 2 {
			if qty, err = strconv.Atoi(args[2]); err != nil {
				return fmt.Errorf("quantity must be a number")
			}
		}
		return a.cart.Add(ctx, productID, qty)
	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("usage: cart rm <itemId>")
		}
		itemID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("item id must be a number")
		}
		return a.cart.Remove(ctx, itemID)
	case "qty":
		if len(args) < 3 {
			return fmt.Errorf("usage: cart qty <itemId> <n>")
		}
		itemID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("item id must be a number")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("quantity must be a number")
		}
		return a.cart.UpdateQuantity(ctx, itemID, qty)
	case "clear":
		return a.cart.Clear(ctx)
	default:
		return fmt.Errorf("unknown cart subcommand %q", args[0])
	}
}

func (a *app) wishCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if err := a.favorites.Refresh(ctx); err != nil {
			return err
		}
		items := a.favorites.Items()
		if len(items) == 0 {
			fmt.Println("Your wishlist is empty.")
			return nil
		}
		for _, item := range items {
			fmt.Printf("product #%d (added %s)\n", item.ProductID, item.AddedAt)
		}
		return nil
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: wish [add|rm] <productId>")
	}
	productID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("product id must be a number")
	}
	switch args[0] {
	case "add":
		return a.favorites.Add(ctx, productID)
	case "rm":
		return a.favorites.Remove(ctx, productID)
	default:
		return fmt.Errorf("unknown wish subcommand %q", args[0])
	}
}

func (a *app) showProfile(ctx context.Context) error {
	profile, err := a.auth.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", profile.Name, profile.Email)
	if profile.Phone != "" {
		fmt.Printf("Phone: %s\n", profile.Phone)
	}
	if profile.Address != "" {
		fmt.Printf("Address: %s\n", profile.Address)
	}
	fmt.Printf("Member since %s\n", profile.CreatedAt)
	return nil
}

func (a *app) changePassword(ctx context.Context) error {
	current := a.promptPassword("Current password: ")
	next := a.promptPassword("New password: ")
	msg, err := a.auth.ChangePassword(ctx, current, next)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func printProductLine(p *api.Product, favorites *state.Favorites) {
	marker := " "
	if favorites.IsFavorite(p.ID) {
		marker = "*"
	}
	fmt.Printf("%s #%-4d %-40s %8.2f\n", marker, p.ID, p.Name, p.UnitPrice())
}
