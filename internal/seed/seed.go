// Package seed produces the demo dataset inserted on first startup:
// 14 days of internally consistent campaign metrics per channel, plus a
// small contact pipeline with a conversation transcript.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/hvacops/analytics-api/internal/models"
	"github.com/hvacops/analytics-api/internal/store"
)

// Metrics derives one record per (day, channel) for the 14 days ending
// today. Pure and deterministic in today; derived rates always agree
// with the counts they are computed from.
func Metrics(today time.Time) []models.CampaignMetric {
	out := make([]models.CampaignMetric, 0, 28)
	for i := 0; i < 14; i++ {
		date := today.AddDate(0, 0, -(13 - i)).Format("2006-01-02")
		out = append(out,
			deriveMetric(i, models.ChannelInbound, date),
			deriveMetric(i, models.ChannelOutbound, date),
		)
	}
	return out
}

func deriveMetric(i int, channel, date string) models.CampaignMetric {
	inbound := channel == models.ChannelInbound

	leadStep, convRate, bookRate := 2, 0.4, 0.35
	aov, costPerLead, respTime, csat := 420.0, 60.0, 12.0, 4.3
	if inbound {
		leadStep, convRate, bookRate = 1, 0.6, 0.45
		aov, costPerLead, respTime, csat = 350.0, 35.0, 18.0, 4.6
	}

	leads := 10 + (i%5)*leadStep
	conversations := int(float64(leads) * convRate)
	booked := int(float64(conversations) * bookRate)
	completed := int(float64(booked) * 0.9)
	revenue := float64(completed) * aov
	cost := costPerLead * float64(leads)
	roi := 0.0
	if cost > 0 {
		roi = (revenue - cost) / cost
	}

	return models.CampaignMetric{
		Channel:         channel,
		Date:            date,
		LeadsGenerated:  leads,
		CallsHandled:    leads + conversations,
		Conversations:   conversations,
		BookedJobs:      booked,
		CompletedJobs:   completed,
		ResponseTimeSec: respTime,
		ConversionRate:  float64(booked) / float64(max(leads, 1)),
		ApptSetRate:     float64(booked) / float64(max(conversations, 1)),
		NoShowRate:      0.1,
		AOV:             aov,
		Revenue:         revenue,
		Cost:            cost,
		ROI:             roi,
		CSAT:            csat,
	}
}

// Contacts returns the fixed demo pipeline: five contacts, one per
// stage, and five transcript messages split across the first two.
// Message timestamps are fixed offsets before now, already ascending
// per contact.
func Contacts(now time.Time) ([]models.Contact, []models.ConversationMessage) {
	type fixture struct {
		name, phone, channel, stage string
		age                         time.Duration
	}
	fixtures := []fixture{
		{"Sarah Mitchell", "+1-555-0101", models.ChannelInbound, "new", 4 * time.Hour},
		{"James Carter", "+1-555-0102", models.ChannelOutbound, "engaged", 30 * time.Hour},
		{"Maria Lopez", "+1-555-0103", models.ChannelInbound, "qualified", 3 * 24 * time.Hour},
		{"David Kim", "+1-555-0104", models.ChannelOutbound, "booked", 5 * 24 * time.Hour},
		{"Linda Nguyen", "+1-555-0105", models.ChannelInbound, "completed", 9 * 24 * time.Hour},
	}

	contacts := make([]models.Contact, 0, len(fixtures))
	for _, f := range fixtures {
		created := now.Add(-f.age)
		contacts = append(contacts, models.Contact{
			ID:        bson.NewObjectID(),
			Name:      f.name,
			Phone:     f.phone,
			Channel:   f.channel,
			Stage:     f.stage,
			CreatedAt: created,
			UpdatedAt: created,
		})
	}

	msg := func(contact models.Contact, typ, direction string, age time.Duration) models.ConversationMessage {
		ts := now.Add(-age)
		return models.ConversationMessage{
			ID:        bson.NewObjectID(),
			ContactID: contact.ID,
			Type:      typ,
			Direction: direction,
			Timestamp: ts,
			CreatedAt: ts,
			UpdatedAt: ts,
		}
	}

	m1 := msg(contacts[0], models.MessageSMS, models.ChannelInbound, 3*time.Hour)
	m1.Text = "Hi, our AC stopped cooling last night. Can someone come take a look?"
	m2 := msg(contacts[0], models.MessageSMS, models.ChannelOutbound, 3*time.Hour-5*time.Minute)
	m2.Text = "Sorry to hear that! We have an opening tomorrow at 9am. Does that work?"
	m3 := msg(contacts[0], models.MessageCall, models.ChannelInbound, 2*time.Hour)
	m3.RecordingURL = "https://recordings.example.com/calls/sarah-mitchell-01.mp3"
	m3.DurationSec = 240

	m4 := msg(contacts[1], models.MessageSMS, models.ChannelOutbound, 26*time.Hour)
	m4.Text = "Following up on the furnace tune-up quote we sent over. Any questions?"
	m5 := msg(contacts[1], models.MessageCall, models.ChannelOutbound, 24*time.Hour)
	m5.RecordingURL = "https://recordings.example.com/calls/james-carter-01.mp3"
	m5.DurationSec = 180

	return contacts, []models.ConversationMessage{m1, m2, m3, m4, m5}
}

// Seeder inserts the demo dataset when the target collections are
// empty. The count-then-insert guard is not transactional: concurrent
// cold starts can each observe an empty collection and both insert,
// leaving duplicate demo rows. Known limitation, kept from the original
// deployment.
type Seeder struct {
	st  store.Store
	log *slog.Logger
	now func() time.Time
}

func New(st store.Store, log *slog.Logger) *Seeder {
	return &Seeder{st: st, log: log, now: time.Now}
}

func (s *Seeder) Run(ctx context.Context) error {
	if s.st == nil {
		return nil
	}
	today := s.now().UTC()

	n, err := s.st.CountMetrics(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if n == 0 {
		recs := Metrics(today)
		if err := s.st.InsertMetrics(ctx, recs); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		s.log.Info("seeded campaign metrics", slog.Int("records", len(recs)))
	}

	n, err = s.st.CountContacts(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if n == 0 {
		contacts, msgs := Contacts(today)
		for _, c := range contacts {
			if _, err := s.st.InsertContact(ctx, c); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}
		if err := s.st.InsertMessages(ctx, msgs); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		s.log.Info("seeded pipeline", slog.Int("contacts", len(contacts)), slog.Int("messages", len(msgs)))
	}
	return nil
}
