// Operator console for the progressgarant local store. The core packages
// never touch the CLI or the environment; everything here is outer surface.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"progressgarant/auth"
	"progressgarant/cart"
	"progressgarant/chats"
	"progressgarant/kv"
	"progressgarant/models"
	"progressgarant/mq"
	"progressgarant/orders"
	"progressgarant/partners"
	"progressgarant/products"
	"progressgarant/ratelim"
)

type app struct {
	store    *kv.SQLite
	bus      *mq.Emitter
	products *products.Repo
	cart     *cart.Repo
	auth     *auth.Service
	chats    *chats.Repo
	orders   *orders.Repo
	form     *orders.FormClient
}

func openApp() (*app, error) {
	// .env is optional for the console
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env: %v", err)
	}

	path := os.Getenv("PROGRESSGARANT_DB")
	if path == "" {
		path = "progressgarant.db"
	}

	store, err := kv.Open(path)
	if err != nil {
		return nil, err
	}

	form := orders.NewFormClient()
	if key := os.Getenv("WEB3FORMS_ACCESS_KEY"); key != "" {
		form.AccessKey = key
	}

	bus := mq.NewEmitter()
	productRepo := products.New(store, kv.NewMemory(), bus)
	return &app{
		store:    store,
		bus:      bus,
		products: productRepo,
		cart:     cart.New(store, productRepo),
		auth:     auth.New(store),
		chats:    chats.New(store, ratelim.NewRateLimiter()),
		orders:   orders.New(store, form),
		form:     form,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		log.Printf("closing store: %v", err)
	}
}

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "progressgarant",
		Short:        "Console for the progressgarant local storefront store",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newSeedCommand(),
		newProductsCommand(),
		newCartCommand(),
		newAuthCommand(),
		newChatCommand(),
		newOrdersCommand(),
		newUsersCommand(),
		newPartnerCommand(),
	)
	return cmd
}

// withApp opens the store for one command invocation.
func withApp(fn func(*app, *cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()
		return fn(a, cmd, args)
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Initialize the catalog (idempotent)",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.products.EnsureSeeded(); err != nil {
				return err
			}
			all, err := a.products.List()
			if err != nil {
				return err
			}
			fmt.Printf("catalog holds %d products\n", len(all))
			return nil
		}),
	}
}

func newProductsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Catalog operations"}

	var category, brand string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the catalog, optionally filtered by category or brand",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			all, err := a.products.Filter(category, brand)
			if err != nil {
				return err
			}
			printProducts(all)
			return nil
		}),
	}
	list.Flags().StringVar(&category, "category", "", "category filter, e.g. "+products.Categories[1])
	list.Flags().StringVar(&brand, "brand", "", "brand filter, e.g. "+products.Brands[1])

	added := &cobra.Command{
		Use:   "added",
		Short: "List only products added through the admin panel",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			all, err := a.products.Added()
			if err != nil {
				return err
			}
			printProducts(all)
			return nil
		}),
	}

	var draft models.Product
	var imagePath, imageDir string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a product (staff)",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if !a.auth.IsAdmin() {
				return fmt.Errorf("admin login required")
			}
			if imagePath != "" {
				stored, err := products.SaveImage(imagePath, imageDir)
				if err != nil {
					return err
				}
				draft.Image = stored
			}
			created, err := a.products.Add(draft)
			if err != nil {
				return err
			}
			fmt.Println("created", created.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&draft.Name, "name", "", "product name")
	add.Flags().Float64Var(&draft.Price, "price", 0, "price in rubles")
	add.Flags().StringVar(&draft.Category, "category", "", "category")
	add.Flags().StringVar(&draft.Description, "description", "", "description")
	add.Flags().StringVar(&draft.Brand, "brand", "", "brand")
	add.Flags().StringVar(&draft.Volume, "volume", "", "volume/size")
	add.Flags().BoolVar(&draft.InStock, "in-stock", true, "in stock")
	add.Flags().StringVar(&imagePath, "image", "", "path to a catalog image to import")
	add.Flags().StringVar(&imageDir, "image-dir", "static/products", "directory for stored images")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a product (staff)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if !a.auth.IsAdmin() {
				return fmt.Errorf("admin login required")
			}
			return a.products.Remove(args[0])
		}),
	}

	cmd.AddCommand(list, added, add, rm)
	return cmd
}

func printProducts(all []models.Product) {
	for _, p := range all {
		stock := "в наличии"
		if !p.InStock {
			stock = "нет в наличии"
		}
		fmt.Printf("%-28s %-45s %8.0f руб.  %s\n", p.ID, p.Name, p.Price, stock)
	}
}

func newCartCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "cart", Short: "Cart operations"}

	add := &cobra.Command{
		Use:   "add <productID> [qty]",
		Short: "Add a product to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			qty := 1
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("quantity must be a number: %w", err)
				}
				qty = n
			}
			if _, err := a.products.Get(args[0]); err != nil {
				return err
			}
			return a.cart.AddLine(args[0], qty)
		}),
	}

	set := &cobra.Command{
		Use:   "set <productID> <qty>",
		Short: "Set a line's quantity (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be a number: %w", err)
			}
			return a.cart.SetQuantity(args[0], qty)
		}),
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the materialized cart",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			items, totalItems, totalPrice, err := a.cart.Materialize()
			if err != nil {
				return err
			}
			for _, it := range items {
				fmt.Printf("%-45s × %-3d %8.0f руб.\n", it.Name, it.Quantity, it.Price*float64(it.Quantity))
			}
			fmt.Printf("итого: %d шт., %.0f руб.\n", totalItems, totalPrice)
			return nil
		}),
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			return a.cart.Clear()
		}),
	}

	cmd.AddCommand(add, set, show, clear)
	return cmd
}

func newAuthCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "auth", Short: "Session operations"}

	login := &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Start a session",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			user, err := a.auth.Login(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("logged in as %s (%s)\n", user.Username, user.Role)
			return nil
		}),
	}

	logout := &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			a.auth.Logout()
			return nil
		}),
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			u := a.auth.CurrentUser()
			if u == nil {
				fmt.Println("guest")
				return nil
			}
			fmt.Printf("%s <%s> role=%s\n", u.Username, u.Email, u.Role)
			return nil
		}),
	}

	var draft auth.RegisterDraft
	register := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			user, err := a.auth.Register(draft)
			if err != nil {
				return err
			}
			fmt.Println("registered", user.Username)
			return nil
		}),
	}
	register.Flags().StringVar(&draft.Username, "username", "", "username")
	register.Flags().StringVar(&draft.Email, "email", "", "email")
	register.Flags().StringVar(&draft.Password, "password", "", "password")
	register.Flags().StringVar(&draft.FirstName, "first-name", "", "first name")
	register.Flags().StringVar(&draft.LastName, "last-name", "", "last name")
	register.Flags().StringVar(&draft.Phone, "phone", "", "phone")

	cmd.AddCommand(login, logout, whoami, register)
	return cmd
}

func (a *app) currentActor() (chats.Actor, string, string, error) {
	if u := a.auth.CurrentUser(); u != nil {
		if u.Role != models.RoleUser {
			return chats.Actor{}, "", "", fmt.Errorf("staff have no customer thread, use: chat reply")
		}
		return chats.Actor{UserID: u.ID}, models.RoleUser, u.ID, nil
	}
	guestID, err := a.chats.GuestID()
	if err != nil {
		return chats.Actor{}, "", "", err
	}
	return chats.Actor{GuestID: guestID}, models.RoleGuest, guestID, nil
}

func newChatCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "chat", Short: "Chat operations"}

	send := &cobra.Command{
		Use:   "send <text>",
		Short: "Send a message on the current actor's thread",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			actor, role, senderID, err := a.currentActor()
			if err != nil {
				return err
			}
			chat, err := a.chats.GetOrCreateChat(actor)
			if err != nil {
				return err
			}
			_, err = a.chats.Send(chat.ID, role, senderID, strings.Join(args, " "))
			return err
		}),
	}

	reply := &cobra.Command{
		Use:   "reply <chatID> <text>",
		Short: "Reply on a thread as staff",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			u := a.auth.CurrentUser()
			if u == nil || !a.auth.IsStaff() {
				return fmt.Errorf("staff login required")
			}
			_, err := a.chats.Send(args[0], u.Role, u.ID, strings.Join(args[1:], " "))
			return err
		}),
	}

	inbox := &cobra.Command{
		Use:   "inbox",
		Short: "List all threads, most recently active first (staff)",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if !a.auth.IsStaff() {
				return fmt.Errorf("staff login required")
			}
			for _, c := range a.chats.ListChatsForStaff() {
				actor := c.UserID
				if actor == "" {
					actor = c.GuestID
				}
				fmt.Printf("%-28s %-40s %-7s %s\n", c.ID, actor, c.Status, c.LastMessageAt.Format(time.RFC3339))
			}
			return nil
		}),
	}

	logCmd := &cobra.Command{
		Use:   "log [chatID]",
		Short: "Print a thread's messages in order",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			chatID, err := a.resolveChatID(args)
			if err != nil {
				return err
			}
			viewer := a.auth.CurrentUser()
			for _, m := range a.chats.ListMessages(chatID) {
				label := chats.SenderLabel(m.SenderRole, m.SenderID, viewer)
				fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("15:04:05"), label, m.Text)
			}
			return nil
		}),
	}

	var interval time.Duration
	watch := &cobra.Command{
		Use:   "watch [chatID]",
		Short: "Poll a thread and print new messages as they land",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			chatID, err := a.resolveChatID(args)
			if err != nil {
				return err
			}
			viewer := a.auth.CurrentUser()
			seen := 0
			printNew := func() {
				msgs := a.chats.ListMessages(chatID)
				for _, m := range msgs[seen:] {
					label := chats.SenderLabel(m.SenderRole, m.SenderID, viewer)
					fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("15:04:05"), label, m.Text)
				}
				seen = len(msgs)
			}
			printNew()
			p := chats.NewPoller(interval, printNew)
			defer p.Stop()
			select {} // poll until interrupted
		}),
	}
	watch.Flags().DurationVar(&interval, "interval", chats.DefaultInterval, "polling interval")

	closeCmd := &cobra.Command{
		Use:   "close <chatID>",
		Short: "Close a thread (staff)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if !a.auth.IsStaff() {
				return fmt.Errorf("staff login required")
			}
			return a.chats.CloseChat(args[0])
		}),
	}

	cmd.AddCommand(send, reply, inbox, logCmd, watch, closeCmd)
	return cmd
}

// resolveChatID takes an explicit id or falls back to the current actor's
// own thread.
func (a *app) resolveChatID(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	actor, _, _, err := a.currentActor()
	if err != nil {
		return "", err
	}
	chat, err := a.chats.GetOrCreateChat(actor)
	if err != nil {
		return "", err
	}
	return chat.ID, nil
}

func newOrdersCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "Order archive operations"}

	var data models.OrderData
	checkout := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from the current cart",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			order, err := a.orders.Checkout(a.cart, data, a.auth.CurrentUser())
			if err != nil {
				return err
			}
			fmt.Printf("заказ №%s оформлен, %d шт. на %.0f руб.\n", order.ID, order.TotalItems, order.TotalPrice)
			return nil
		}),
	}
	checkout.Flags().StringVar(&data.FirstName, "first-name", "", "first name")
	checkout.Flags().StringVar(&data.LastName, "last-name", "", "last name")
	checkout.Flags().StringVar(&data.Email, "email", "", "email")
	checkout.Flags().StringVar(&data.Phone, "phone", "", "phone")
	checkout.Flags().StringVar(&data.DeliveryMethod, "delivery", "pickup", "delivery method")
	checkout.Flags().StringVar(&data.Address, "address", "", "delivery address")
	checkout.Flags().StringVar(&data.PaymentMethod, "payment", "cash", "payment method")
	checkout.Flags().StringVar(&data.Comment, "comment", "", "comment")

	var email string
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			var out []models.Order
			if email != "" {
				out = a.orders.ListForEmail(email)
			} else {
				if !a.auth.IsStaff() {
					return fmt.Errorf("staff login required to list all orders, or pass --email")
				}
				out = a.orders.List()
			}
			for _, o := range out {
				fmt.Printf("%-28s %-12s %6d шт. %10.0f руб.  %s\n",
					o.ID, o.Status, o.TotalItems, o.TotalPrice, o.Date.Format(time.RFC3339))
			}
			return nil
		}),
	}
	list.Flags().StringVar(&email, "email", "", "filter by checkout email")

	status := &cobra.Command{
		Use:   "status <orderID> <status>",
		Short: "Set an order's status (staff)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if !a.auth.IsStaff() {
				return fmt.Errorf("staff login required")
			}
			return a.orders.SetStatus(args[0], args[1])
		}),
	}

	receipt := &cobra.Command{
		Use:   "receipt <orderID> <out.pdf>",
		Short: "Write a PDF receipt for an order",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			order, err := a.orders.Get(args[0])
			if err != nil {
				return err
			}
			f, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			return orders.WriteReceipt(order, f)
		}),
	}

	cmd.AddCommand(checkout, list, status, receipt)
	return cmd
}

func newUsersCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Roster operations (admin)"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if !a.auth.IsAdmin() {
				return fmt.Errorf("admin login required")
			}
			for _, u := range a.auth.ListUsers() {
				fmt.Printf("%-28s %-20s %-30s %s\n", u.ID, u.Username, u.Email, u.Role)
			}
			return nil
		}),
	}

	promote := &cobra.Command{
		Use:   "promote <userID> <role>",
		Short: "Rewrite a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if !a.auth.IsAdmin() {
				return fmt.Errorf("admin login required")
			}
			return a.auth.Promote(args[0], args[1])
		}),
	}

	cmd.AddCommand(list, promote)
	return cmd
}

func newPartnerCommand() *cobra.Command {
	var application models.PartnerApplication
	cmd := &cobra.Command{
		Use:   "partner",
		Short: "Submit a partnership application",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			return partners.Submit(a.form, application)
		}),
	}
	cmd.Flags().StringVar(&application.CompanyName, "company", "", "company name")
	cmd.Flags().StringVar(&application.ContactPerson, "contact", "", "contact person")
	cmd.Flags().StringVar(&application.Phone, "phone", "", "phone")
	cmd.Flags().StringVar(&application.Email, "email", "", "email")
	cmd.Flags().StringVar(&application.Message, "message", "", "message")
	return cmd
}
