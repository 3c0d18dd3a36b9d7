package api

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/service"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ClientHandler struct {
	clientService service.ClientService
	log           *zap.Logger
}

func NewClientHandler(clientService service.ClientService, log *zap.Logger) *ClientHandler {
	return &ClientHandler{clientService: clientService, log: log}
}

// --- DTOs ---

type CreateClientRequest struct {
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Plan      domain.Plan `json:"plan"`
	Phone     string      `json:"phone"`
	Age       AgeField    `json:"age"`
	Goals     []string    `json:"goals"`
}

// UpdateClientRequest lists every field a coach may change. Anything else in
// the body (coach, revenue, ...) is ignored.
type UpdateClientRequest struct {
	FirstName *string              `json:"firstName"`
	LastName  *string              `json:"lastName"`
	Email     *string              `json:"email"`
	Phone     *string              `json:"phone"`
	Age       AgeField             `json:"age"`
	Plan      *domain.Plan         `json:"plan"`
	Status    *domain.ClientStatus `json:"status"`
	Goals     []string             `json:"goals"`
	Sessions  *int                 `json:"sessions"`
	Progress  *int                 `json:"progress"`
}

// AgeField accepts a JSON number or the numeric string the dashboard form
// posts. null and "" both mean no age.
type AgeField struct {
	raw string
}

func (a *AgeField) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		a.raw = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.raw = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	a.raw = n.String()
	return nil
}

// Value returns the parsed age, or nil when none was sent.
func (a AgeField) Value() (*int, error) {
	return service.ParseAge(a.raw)
}

// StatCard is one dashboard tile.
type StatCard struct {
	Value  any    `json:"value"`
	Change string `json:"change"`
	Trend  string `json:"trend"`
}

// --- Handler Methods ---

// GetClients godoc
// @Summary List my clients
// @Tags Clients
// @Produce json
// @Success 200 {array} domain.Client
// @Failure 403 {object} gin.H "Coach only"
// @Router /clients [get]
func (h *ClientHandler) GetClients(c *gin.Context) {
	coach, ok := mustUser(c)
	if !ok {
		return
	}

	clients, err := h.clientService.ListClients(c.Request.Context(), coach)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	respond(c, http.StatusOK, gin.H{"clients": clients, "count": len(clients)})
}

// GetClient godoc
// @Summary Get one of my clients
// @Tags Clients
// @Produce json
// @Param id path string true "Client ObjectID Hex"
// @Success 200 {object} domain.Client
// @Failure 404 {object} gin.H "Not found or not mine"
// @Router /clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	coach, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id", service.ErrClientNotFound.Error())
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), coach, id)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"client": client})
}

// CreateClient godoc
// @Summary Enroll a new client
// @Tags Clients
// @Accept json
// @Produce json
// @Param client body CreateClientRequest true "Client details"
// @Success 201 {object} domain.Client
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Email already used by a client"
// @Router /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	coach, ok := mustUser(c)
	if !ok {
		return
	}
	var req CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}
	age, err := req.Age.Value()
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), coach, service.CreateClientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Plan:      req.Plan,
		Phone:     req.Phone,
		Age:       age,
		Goals:     req.Goals,
	})
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"message": "client added", "client": client})
}

// UpdateClient godoc
// @Summary Update one of my clients
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ObjectID Hex"
// @Param client body UpdateClientRequest true "Fields to change"
// @Success 200 {object} domain.Client
// @Failure 404 {object} gin.H "Not found or not mine"
// @Failure 409 {object} gin.H "Email already used by a client"
// @Router /clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	coach, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id", service.ErrClientNotFound.Error())
	if !ok {
		return
	}
	var req UpdateClientRequest
	if !bindJSON(c, &req) {
		return
	}
	age, err := req.Age.Value()
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), coach, id, domain.ClientPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Age:       age,
		Plan:      req.Plan,
		Status:    req.Status,
		Goals:     req.Goals,
		Sessions:  req.Sessions,
		Progress:  req.Progress,
	})
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "client updated", "client": client})
}

// DeleteClient godoc
// @Summary Remove one of my clients
// @Tags Clients
// @Param id path string true "Client ObjectID Hex"
// @Success 200 {object} gin.H
// @Failure 404 {object} gin.H "Not found or not mine"
// @Router /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	coach, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id", service.ErrClientNotFound.Error())
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), coach, id); err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "client deleted"})
}

// GetStats godoc
// @Summary Dashboard counters for my roster
// @Tags Clients
// @Produce json
// @Success 200 {object} gin.H
// @Router /stats [get]
func (h *ClientHandler) GetStats(c *gin.Context) {
	coach, ok := mustUser(c)
	if !ok {
		return
	}

	stats, err := h.clientService.GetStats(c.Request.Context(), coach)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	// Change and trend are fixed until historical snapshots exist.
	respond(c, http.StatusOK, gin.H{"stats": gin.H{
		"totalClients":   StatCard{Value: stats.Total, Change: "+12%", Trend: "up"},
		"activeClients":  StatCard{Value: stats.Active, Change: "+8%", Trend: "up"},
		"monthlyRevenue": StatCard{Value: stats.MonthlyRevenue, Change: "+15%", Trend: "up"},
		"pendingClients": StatCard{Value: stats.Pending, Change: "-5%", Trend: "down"},
	}})
}
