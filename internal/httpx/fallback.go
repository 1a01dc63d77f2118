package httpx

import (
	"time"

	"github.com/hvacops/analytics-api/internal/metrics"
	"github.com/hvacops/analytics-api/internal/models"
)

// Static payloads served when no document store is configured. Numbers
// match the original deployment's demo mode so frontends keep working
// against an unconfigured backend.

func demoSummary() models.Summary {
	return models.Summary{
		Period:   metrics.Period,
		Totals:   models.ChannelSummary{Leads: 320, Booked: 180, Revenue: 64000, ROI: 3.1},
		Inbound:  models.ChannelSummary{Leads: 170, Booked: 100, Revenue: 34000, ROI: 3.5},
		Outbound: models.ChannelSummary{Leads: 150, Booked: 80, Revenue: 30000, ROI: 2.7},
	}
}

func demoSeries() []models.SeriesPoint {
	return []models.SeriesPoint{
		{Date: "2024-01-01", Leads: 10, Booked: 4, Revenue: 1600},
		{Date: "2024-01-02", Leads: 12, Booked: 6, Revenue: 2100},
	}
}

func demoContacts() []models.Contact {
	created := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	return []models.Contact{
		{Name: "Demo Caller", Phone: "+1-555-0199", Channel: models.ChannelInbound, Stage: "new", CreatedAt: created, UpdatedAt: created},
		{Name: "Demo Prospect", Phone: "+1-555-0198", Channel: models.ChannelOutbound, Stage: "engaged", CreatedAt: created, UpdatedAt: created},
	}
}

func demoConversation() models.Conversation {
	contact := demoContacts()[0]
	t1 := contact.CreatedAt.Add(10 * time.Minute)
	t2 := t1.Add(5 * time.Minute)
	return models.Conversation{
		Contact: contact,
		Messages: []models.ConversationMessage{
			{
				Type:      models.MessageSMS,
				Direction: models.ChannelInbound,
				Timestamp: t1,
				Text:      "Hi, I'd like a quote for a new AC unit.",
				CreatedAt: t1,
				UpdatedAt: t1,
			},
			{
				Type:      models.MessageSMS,
				Direction: models.ChannelOutbound,
				Timestamp: t2,
				Text:      "Happy to help! What's the square footage of your home?",
				CreatedAt: t2,
				UpdatedAt: t2,
			},
		},
	}
}
