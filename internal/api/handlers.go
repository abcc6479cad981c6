package api

import (
	"errors"
	"net/http"
	"strconv"

	"strade-dashboard/internal/entity"
	"strade-dashboard/internal/pages"
	"strade-dashboard/internal/router"
	"strade-dashboard/internal/session"

	"github.com/gin-gonic/gin"
)

// writeError maps domain errors onto HTTP responses.
func writeError(c *gin.Context, err error) {
	var sessionErr session.SessionError
	if errors.As(err, &sessionErr) {
		status := http.StatusBadRequest
		switch sessionErr.Code {
		case "INVALID_CREDENTIALS":
			status = http.StatusUnauthorized
		case "SUBMISSION_IN_FLIGHT":
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": sessionErr.Message, "code": sessionErr.Code})
		return
	}

	var validationErr entity.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// Auth handlers

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Identity string `json:"identity" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identity and password are required"})
		return
	}

	if err := s.sessions.Login(c.Request.Context(), req.Identity, req.Password); err != nil {
		writeError(c, err)
		return
	}

	s.router.Navigate(s.appCtx, router.DefaultPage)
	c.JSON(http.StatusOK, s.sessions.CurrentState())
}

func (s *Server) handleLogout(c *gin.Context) {
	s.router.Reset()
	if err := s.sessions.Logout(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.sessions.CurrentState())
}

func (s *Server) handleActivate(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "activation code is required"})
		return
	}

	if err := s.sessions.CompleteActivation(c.Request.Context(), req.Code); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.sessions.CurrentState())
}

func (s *Server) handleRegister(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		FullName string `json:"full_name"`
		Password string `json:"password" binding:"required"`
		Country  string `json:"country"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
		return
	}

	form := session.RegistrationForm{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Country:  req.Country,
	}
	if err := s.sessions.CompleteRegistration(c.Request.Context(), form); err != nil {
		writeError(c, err)
		return
	}

	s.router.Navigate(s.appCtx, router.DefaultPage)
	c.JSON(http.StatusOK, s.sessions.CurrentState())
}

func (s *Server) handleSetAuthView(c *gin.Context) {
	var req struct {
		View string `json:"view" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "view is required"})
		return
	}

	s.sessions.SetAuthView(session.AuthView(req.View))
	c.JSON(http.StatusOK, s.sessions.CurrentState())
}

func (s *Server) handleSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.sessions.CurrentState())
}

// Navigation handlers

func (s *Server) handleNavigation(c *gin.Context) {
	type pageInfo struct {
		Key   string `json:"key"`
		Title string `json:"title"`
	}

	infos := make([]pageInfo, 0)
	for _, key := range s.router.Keys() {
		if page, ok := s.router.Get(key); ok {
			infos = append(infos, pageInfo{Key: page.Key(), Title: page.Title()})
		}
	}

	title := ""
	if page := s.router.CurrentPage(); page != nil {
		title = page.Title()
	}

	c.JSON(http.StatusOK, gin.H{
		"current": s.router.Current(),
		"title":   title,
		"pages":   infos,
	})
}

func (s *Server) handleNavigate(c *gin.Context) {
	var req struct {
		Page string `json:"page"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page is required"})
		return
	}

	s.router.Navigate(s.appCtx, req.Page)
	c.JSON(http.StatusOK, gin.H{"current": s.router.Current()})
}

func (s *Server) handleBack(c *gin.Context) {
	s.router.Back(s.appCtx)
	c.JSON(http.StatusOK, gin.H{"current": s.router.Current()})
}

// Market handlers

func (s *Server) handleMarketTickers(c *gin.Context) {
	quote := c.DefaultQuery("quote", "USDT")
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	c.JSON(http.StatusOK, gin.H{
		"tickers": s.feed.TopPairs(quote, limit),
		"status":  s.feed.Status(),
	})
}

func (s *Server) handleMarketStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  s.feed.Status(),
		"symbols": len(s.feed.Snapshot()),
	})
}

// Page state handlers

func (s *Server) handleDashboardState(c *gin.Context) { c.JSON(http.StatusOK, s.pages.Dashboard.State()) }
func (s *Server) handleTradeState(c *gin.Context)     { c.JSON(http.StatusOK, s.pages.Trade.State()) }
func (s *Server) handleBotsState(c *gin.Context)      { c.JSON(http.StatusOK, s.pages.Bots.State()) }
func (s *Server) handleAPIConfigState(c *gin.Context) { c.JSON(http.StatusOK, s.pages.APIConfig.State()) }
func (s *Server) handleCreditState(c *gin.Context)    { c.JSON(http.StatusOK, s.pages.Credit.State()) }
func (s *Server) handleSavingState(c *gin.Context)    { c.JSON(http.StatusOK, s.pages.Saving.State()) }
func (s *Server) handleCashbackState(c *gin.Context)  { c.JSON(http.StatusOK, s.pages.Cashback.State()) }
func (s *Server) handleBNBFeeState(c *gin.Context)    { c.JSON(http.StatusOK, s.pages.BNBFee.State()) }
func (s *Server) handleProfileState(c *gin.Context)   { c.JSON(http.StatusOK, s.pages.Profile.State()) }
func (s *Server) handleRechargeState(c *gin.Context)  { c.JSON(http.StatusOK, s.pages.Recharge.State()) }
func (s *Server) handleProfitState(c *gin.Context)    { c.JSON(http.StatusOK, s.pages.Profit.State()) }
func (s *Server) handleFAQState(c *gin.Context)       { c.JSON(http.StatusOK, s.pages.FAQ.State()) }

// Trade actions

func (s *Server) handleTradeAddPair(c *gin.Context) {
	values, ok := bindFormValues(c)
	if !ok {
		return
	}

	created, err := s.pages.Trade.AddPair(values)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleTradeEditPair(c *gin.Context) {
	values, ok := bindFormValues(c)
	if !ok {
		return
	}

	store := s.pages.Trade.Store()
	id := c.Param("id")
	if _, exists := store.Get(id); !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "pair not found"})
		return
	}

	store.BeginEdit(id)
	updated, err := store.SubmitValues(values)
	if err != nil {
		store.CancelEdit()
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleTradeRemovePair(c *gin.Context) {
	s.pages.Trade.RemovePair(c.Param("id"))
	c.JSON(http.StatusOK, s.pages.Trade.State())
}

func (s *Server) handleTradeSelect(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	s.pages.Trade.Select(req.ID)
	c.JSON(http.StatusOK, s.pages.Trade.State())
}

func (s *Server) handleTradeAmount(c *gin.Context) {
	var req struct {
		Amount string `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount payload"})
		return
	}

	s.pages.Trade.SetTradeAmount(req.Amount)
	c.JSON(http.StatusOK, s.pages.Trade.State())
}

// Bots actions

func (s *Server) handleBotsParams(c *gin.Context) {
	var params pages.StrategyParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid strategy parameters"})
		return
	}

	s.pages.Bots.SetParams(params)
	c.JSON(http.StatusOK, s.pages.Bots.State())
}

func (s *Server) handleBotsBacktest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"test_results": s.pages.Bots.RunBacktest()})
}

func (s *Server) handleBotsActivate(c *gin.Context) {
	var req struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "active is required"})
		return
	}

	s.pages.Bots.Activate(req.Active)
	c.JSON(http.StatusOK, s.pages.Bots.State())
}

// API config actions

func (s *Server) handleAPIConfigAdd(c *gin.Context) {
	submitToStore(c, s.pages.APIConfig.Store())
}

func (s *Server) handleAPIConfigEdit(c *gin.Context) {
	editInStore(c, s.pages.APIConfig.Store())
}

func (s *Server) handleAPIConfigRemove(c *gin.Context) {
	s.pages.APIConfig.Store().Remove(c.Param("id"))
	c.JSON(http.StatusOK, s.pages.APIConfig.State())
}

// Credit actions

func (s *Server) handleCreditAdd(c *gin.Context) {
	submitToStore(c, s.pages.Credit.Store())
}

func (s *Server) handleCreditEdit(c *gin.Context) {
	editInStore(c, s.pages.Credit.Store())
}

func (s *Server) handleCreditRemove(c *gin.Context) {
	s.pages.Credit.Store().Remove(c.Param("id"))
	c.JSON(http.StatusOK, s.pages.Credit.State())
}

// Saving actions

func (s *Server) handleSavingAddPlan(c *gin.Context) {
	submitToStore(c, s.pages.Saving.Plans())
}

func (s *Server) handleSavingRemovePlan(c *gin.Context) {
	s.pages.Saving.Plans().Remove(c.Param("id"))
	c.JSON(http.StatusOK, s.pages.Saving.State())
}

func (s *Server) handleSavingAddHolding(c *gin.Context) {
	submitToStore(c, s.pages.Saving.Holdings())
}

func (s *Server) handleSavingRemoveHolding(c *gin.Context) {
	s.pages.Saving.Holdings().Remove(c.Param("id"))
	c.JSON(http.StatusOK, s.pages.Saving.State())
}

// Cashback actions

func (s *Server) handleCashbackAdd(c *gin.Context) {
	submitToStore(c, s.pages.Cashback.Store())
}

func (s *Server) handleCashbackRemove(c *gin.Context) {
	s.pages.Cashback.Store().Remove(c.Param("id"))
	c.JSON(http.StatusOK, s.pages.Cashback.State())
}

// BNB fee actions

func (s *Server) handleBNBFeeAddProfile(c *gin.Context) {
	values, ok := bindFormValues(c)
	if !ok {
		return
	}

	created, err := s.pages.BNBFee.AddProfile(values)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleBNBFeeRemoveProfile(c *gin.Context) {
	s.pages.BNBFee.RemoveProfile(c.Param("id"))
	c.JSON(http.StatusOK, s.pages.BNBFee.State())
}

func (s *Server) handleBNBFeeSelect(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	s.pages.BNBFee.Select(req.ID)
	c.JSON(http.StatusOK, s.pages.BNBFee.State())
}

func (s *Server) handleBNBFeeBalance(c *gin.Context) {
	var req struct {
		Balance float64 `json:"balance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid balance payload"})
		return
	}

	s.pages.BNBFee.SetBNBBalance(req.Balance)
	c.JSON(http.StatusOK, s.pages.BNBFee.State())
}

// Profile actions

func (s *Server) handleProfileUpdate(c *gin.Context) {
	var info pages.ProfileInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile payload"})
		return
	}

	s.pages.Profile.UpdateProfile(info)
	c.JSON(http.StatusOK, s.pages.Profile.State())
}

func (s *Server) handleProfilePassword(c *gin.Context) {
	var req struct {
		Current     string `json:"current"`
		NewPassword string `json:"new_password"`
		Confirm     string `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid password payload"})
		return
	}

	if err := s.pages.Profile.ChangePassword(req.Current, req.NewPassword, req.Confirm); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.pages.Profile.State())
}

func (s *Server) handleProfileAddContact(c *gin.Context) {
	submitToStore(c, s.pages.Profile.Contacts())
}

func (s *Server) handleProfileRemoveContact(c *gin.Context) {
	s.pages.Profile.Contacts().Remove(c.Param("id"))
	c.JSON(http.StatusOK, s.pages.Profile.State())
}

func (s *Server) handleProfileKYC(c *gin.Context) {
	var req struct {
		ID     string `json:"id" binding:"required"`
		Status string `json:"status"`
		State  string `json:"state"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	s.pages.Profile.SetKYCState(req.ID, req.Status, req.State)
	c.JSON(http.StatusOK, s.pages.Profile.State())
}

// Recharge actions

func (s *Server) handleRechargeForm(c *gin.Context) {
	var req struct {
		Amount        *string `json:"amount"`
		PaymentMethod *string `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recharge payload"})
		return
	}

	if req.Amount != nil {
		s.pages.Recharge.SetAmount(*req.Amount)
	}
	if req.PaymentMethod != nil {
		s.pages.Recharge.SetPaymentMethod(*req.PaymentMethod)
	}
	c.JSON(http.StatusOK, s.pages.Recharge.State())
}

// Profit and FAQ actions

func (s *Server) handleProfitRange(c *gin.Context) {
	var req struct {
		Range string `json:"range" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range is required"})
		return
	}

	s.pages.Profit.SetTimeRange(req.Range)
	c.JSON(http.StatusOK, s.pages.Profit.State())
}

func (s *Server) handleFAQToggle(c *gin.Context) {
	var req struct {
		ID int `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	s.pages.FAQ.Toggle(req.ID)
	c.JSON(http.StatusOK, s.pages.FAQ.State())
}

// Helpers

func bindFormValues(c *gin.Context) (entity.FormValues, bool) {
	var values entity.FormValues
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form payload"})
		return nil, false
	}
	return values, true
}

func submitToStore[T entity.Entity](c *gin.Context, store *entity.Store[T]) {
	values, ok := bindFormValues(c)
	if !ok {
		return
	}

	created, err := store.SubmitValues(values)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func editInStore[T entity.Entity](c *gin.Context, store *entity.Store[T]) {
	values, ok := bindFormValues(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, exists := store.Get(id); !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}

	store.BeginEdit(id)
	updated, err := store.SubmitValues(values)
	if err != nil {
		store.CancelEdit()
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
