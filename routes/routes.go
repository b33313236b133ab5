package routes

import (
	"context"
	"errors"
	"strconv"
	"time"

	"orderdesk/analysis"
	"orderdesk/history"
	"orderdesk/models"
	"orderdesk/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// Deps are the core collaborators the presentation surface calls into. The
// handlers hold no business logic; they parse, delegate and map errors.
type Deps struct {
	Customers *store.CustomerStore
	Products  *store.ProductStore
	Orders    *store.OrderStore
	Reports   *store.ReportStore
	Analysis  *analysis.Service
	History   *history.Log
}

func Setup(app *fiber.App, d Deps) {
	hub := newEventHub()
	go hub.run()

	app.Get("/ws", adaptor.HTTPHandlerFunc(hub.handleWS))

	api := app.Group("/api")

	customers := api.Group("/customers")
	customers.Get("/", d.listCustomers)
	customers.Get("/:id", d.getCustomer)
	customers.Post("/", d.createCustomer)
	customers.Put("/:id", d.updateCustomer)
	customers.Delete("/:id", d.deleteCustomer)

	products := api.Group("/products")
	products.Get("/", d.listProducts)
	products.Get("/:id", d.getProduct)
	products.Post("/", d.createProduct)
	products.Put("/:id", d.updateProduct)
	products.Delete("/:id", d.deleteProduct)

	orders := api.Group("/orders")
	orders.Get("/", d.listOrders)
	orders.Get("/:id", d.getOrder)
	orders.Post("/", d.makeCreateOrder(hub))

	reports := api.Group("/reports")
	reports.Get("/dashboard", d.dashboard)
	reports.Get("/orders", d.reportOrders)
	reports.Get("/customers", d.reportCustomerOptions)

	api.Post("/analysis", d.makeStartAnalysis(hub))

	api.Get("/history", d.readHistory)
	api.Delete("/history", d.clearHistory)
}

// fail maps the store's typed failures to specific statuses so the caller can
// render a targeted message instead of a raw database error.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, store.ErrNoItems), errors.Is(err, store.ErrOrderNotSaved):
		status = fiber.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrCustomerNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, store.ErrDuplicateName), errors.Is(err, store.ErrInUse):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func idParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// --- Customers ---

func (d Deps) listCustomers(c *fiber.Ctx) error {
	customers, err := d.Customers.List(c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customers)
}

func (d Deps) getCustomer(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	customer, err := d.Customers.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customer)
}

func (d Deps) createCustomer(c *fiber.Ctx) error {
	var in models.CustomerInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to parse request body: " + err.Error()})
	}
	customer, err := d.Customers.Create(in)
	if err != nil {
		return fail(c, err)
	}
	d.History.Record("customer created: %s (id %d)", customer.Name, customer.ID)
	return c.Status(fiber.StatusCreated).JSON(customer)
}

func (d Deps) updateCustomer(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var in models.CustomerInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to parse request body: " + err.Error()})
	}
	customer, err := d.Customers.Update(id, in)
	if err != nil {
		return fail(c, err)
	}
	d.History.Record("customer updated: %s (id %d)", customer.Name, customer.ID)
	return c.JSON(customer)
}

func (d Deps) deleteCustomer(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := d.Customers.Delete(id); err != nil {
		return fail(c, err)
	}
	d.History.Record("customer deleted: id %d", id)
	return c.JSON(fiber.Map{"message": "customer deleted"})
}

// --- Products ---

func (d Deps) listProducts(c *fiber.Ctx) error {
	products, err := d.Products.List(c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

func (d Deps) getProduct(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	product, err := d.Products.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

func (d Deps) createProduct(c *fiber.Ctx) error {
	var in models.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to parse request body: " + err.Error()})
	}
	product, err := d.Products.Create(in)
	if err != nil {
		return fail(c, err)
	}
	d.History.Record("product created: %s (id %d)", product.Name, product.ID)
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (d Deps) updateProduct(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var in models.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to parse request body: " + err.Error()})
	}
	product, err := d.Products.Update(id, in)
	if err != nil {
		return fail(c, err)
	}
	d.History.Record("product updated: %s (id %d)", product.Name, product.ID)
	return c.JSON(product)
}

func (d Deps) deleteProduct(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := d.Products.Delete(id); err != nil {
		return fail(c, err)
	}
	d.History.Record("product deleted: id %d", id)
	return c.JSON(fiber.Map{"message": "product deleted"})
}

// --- Orders ---

func (d Deps) listOrders(c *fiber.Ctx) error {
	rows, err := d.Orders.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}

func (d Deps) getOrder(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	order, err := d.Orders.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

func (d Deps) makeCreateOrder(hub *eventHub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in models.OrderInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to parse request body: " + err.Error()})
		}
		id, err := d.Orders.Create(in)
		if err != nil {
			return fail(c, err)
		}
		d.History.Record("order created: id %d (customer %d, %d items)", id, in.CustomerID, len(in.Items))
		hub.publish(event{"event": "order_created", "order_id": id})
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	}
}

// --- Reports ---

func (d Deps) dashboard(c *fiber.Ctx) error {
	metrics, err := d.Reports.DashboardMetrics(time.Now())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(metrics)
}

// reportOrders serves the filtered report. The export collaborator consumes
// this row shape verbatim; dates and totals are not formatted here.
func (d Deps) reportOrders(c *fiber.Ctx) error {
	filter := store.ReportFilter{
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid customer_id"})
		}
		filter.CustomerID = uint(id)
	}
	rows, err := d.Reports.FilteredOrders(filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}

func (d Deps) reportCustomerOptions(c *fiber.Ctx) error {
	opts, err := d.Reports.CustomerOptions()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(opts)
}

// --- Analysis ---

func (d Deps) makeStartAnalysis(hub *eventHub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d.Analysis == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "insight generator not configured",
			})
		}
		// The task outlives the request; it gets its own context.
		task := d.Analysis.Start(context.Background())
		go func() {
			out := <-task.Result
			if out.Err != nil {
				hub.publish(event{"event": "analysis_failed", "task_id": task.ID, "error": out.Err.Error()})
				return
			}
			hub.publish(event{"event": "analysis_done", "task_id": task.ID, "text": out.Text})
		}()
		d.History.Record("sales analysis requested (task %s)", task.ID)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"task_id": task.ID})
	}
}

// --- History ---

func (d Deps) readHistory(c *fiber.Ctx) error {
	text, err := d.History.Read()
	if err != nil {
		return fail(c, err)
	}
	return c.SendString(text)
}

func (d Deps) clearHistory(c *fiber.Ctx) error {
	if err := d.History.Clear(); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "history cleared"})
}
