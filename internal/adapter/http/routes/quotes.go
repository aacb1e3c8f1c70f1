package routes

import (
	"client_portal/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathProjects = "/projects"
	PathQuotes   = "/quotes"
)

func addQuoteRoutes(rg *gin.RouterGroup, quoteHandler *handlers.QuoteHandler, auth gin.HandlerFunc) {
	projects := rg.Group(PathProjects, auth)
	{
		projects.POST("/:project_id/quote", quoteHandler.GenerateQuote)
		projects.GET("/:project_id/quote", quoteHandler.GetProjectQuote)
	}

	quotes := rg.Group(PathQuotes, auth)
	{
		quotes.GET("/:quote_id", quoteHandler.GetQuote)
		quotes.GET("/:quote_id/document", quoteHandler.GetQuoteDocument)
		quotes.GET("/:quote_id/invoices", quoteHandler.ListQuoteInvoices)
		quotes.POST("/:quote_id/sign", quoteHandler.SignQuote)
		quotes.POST("/:quote_id/cancel", quoteHandler.CancelQuote)
		quotes.POST("/:quote_id/fanout/replay", quoteHandler.ReplayFanOut)
	}
}
