package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Collection names follow the original deployment: one collection per
// record type, lowercased.
const (
	CollMetrics  = "campaignmetric"
	CollContacts = "contact"
	CollMessages = "conversationmessage"
)

const (
	ChannelInbound  = "inbound"
	ChannelOutbound = "outbound"
)

// Pipeline stages, in funnel order. Order is informational only; stage
// transitions are not forced to be monotonic.
var Stages = []string{"new", "engaged", "qualified", "booked", "completed"}

func ValidChannel(s string) bool {
	return s == ChannelInbound || s == ChannelOutbound
}

func ValidStage(s string) bool {
	for _, st := range Stages {
		if s == st {
			return true
		}
	}
	return false
}

// CampaignMetric is one day of campaign performance for one channel.
// Date is an ISO YYYY-MM-DD string so lexicographic order equals
// chronological order. Records are immutable after insert.
type CampaignMetric struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Channel         string        `bson:"channel" json:"channel"`
	Date            string        `bson:"date" json:"date"`
	LeadsGenerated  int           `bson:"leads_generated" json:"leads_generated"`
	CallsHandled    int           `bson:"calls_handled" json:"calls_handled"`
	Conversations   int           `bson:"conversations" json:"conversations"`
	BookedJobs      int           `bson:"booked_jobs" json:"booked_jobs"`
	CompletedJobs   int           `bson:"completed_jobs" json:"completed_jobs"`
	ResponseTimeSec float64       `bson:"response_time_sec" json:"response_time_sec"`
	ConversionRate  float64       `bson:"conversion_rate" json:"conversion_rate"`
	ApptSetRate     float64       `bson:"appt_set_rate" json:"appt_set_rate"`
	NoShowRate      float64       `bson:"no_show_rate" json:"no_show_rate"`
	AOV             float64       `bson:"aov" json:"aov"`
	Revenue         float64       `bson:"revenue" json:"revenue"`
	Cost            float64       `bson:"cost" json:"cost"`
	ROI             float64       `bson:"roi" json:"roi"`
	CSAT            float64       `bson:"csat" json:"csat"`
}

type Contact struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string        `bson:"name" json:"name"`
	Phone     string        `bson:"phone" json:"phone"`
	Channel   string        `bson:"channel" json:"channel"`
	Stage     string        `bson:"stage" json:"stage"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

const (
	MessageSMS  = "sms"
	MessageCall = "call"
)

// ConversationMessage is one SMS or call event on a contact's
// transcript. ContactID is a weak reference; nothing enforces that the
// contact still exists. The payload is a tagged variant on Type: sms
// carries Text, call carries RecordingURL and DurationSec.
type ConversationMessage struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ContactID    bson.ObjectID `bson:"contact_id" json:"contact_id"`
	Type         string        `bson:"type" json:"type"`
	Direction    string        `bson:"direction" json:"direction"`
	Timestamp    time.Time     `bson:"timestamp" json:"timestamp"`
	Text         string        `bson:"text,omitempty" json:"text,omitempty"`
	RecordingURL string        `bson:"recording_url,omitempty" json:"recording_url,omitempty"`
	DurationSec  int           `bson:"duration_sec,omitempty" json:"duration_sec,omitempty"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}

// ChannelSummary is the aggregate over one filtered metric set.
type ChannelSummary struct {
	Leads   int     `json:"leads"`
	Booked  int     `json:"booked"`
	Revenue float64 `json:"revenue"`
	ROI     float64 `json:"roi"`
}

type Summary struct {
	Period   string         `json:"period"`
	Totals   ChannelSummary `json:"totals"`
	Inbound  ChannelSummary `json:"inbound"`
	Outbound ChannelSummary `json:"outbound"`
}

// SeriesPoint is one day of the timeseries endpoint.
type SeriesPoint struct {
	Date    string  `json:"date"`
	Leads   int     `json:"leads"`
	Booked  int     `json:"booked"`
	Revenue float64 `json:"revenue"`
}

type Conversation struct {
	Contact  Contact               `json:"contact"`
	Messages []ConversationMessage `json:"messages"`
}
