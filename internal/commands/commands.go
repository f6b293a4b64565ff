package commands

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"yardgate/internal/config"
	"yardgate/internal/directory"
	"yardgate/internal/pipeline"
	"yardgate/internal/rules"
)

const helpText = `🤖 *Available Commands:*

*1. Revise / Edit Data (Today Only)*
👉 ` + "`@bot edit [old] [new]`" + `
👉 Example: ` + "`@bot edit 1234 -> 5678`" + `
👉 Example: ` + "`@bot edit T1/Tr1 -> T2/Tr2`" + ` (Truck/Trailer/Container)
_(Changes truck/trailer/container and logs the change)_
_(Supports batch edit with multiple lines)_

*2. Postpone Trucks*
👉 ` + "`@bot [Date?] postpone [trucks] to [TargetDate]`" + `
👉 Example: ` + "`@bot postpone 301, 302 to 27.12.2025`" + `
👉 Example: ` + "`@bot 25.12.2025 postpone 301 to 28.12.2025`" + `
_(Creates new file in target date folder)_
`

const noCustomerReply = "❌ ບໍ່ສາມາດລະບຸຊື່ບໍລິສັດຈາກຊື່ກຸ່ມໄດ້."

// Handler interprets operator commands sent to a booking group: revising
// truck, trailer and container numbers in today's archived files, postponing
// trucks to another day, and creating a manifest by hand from a text line.
type Handler struct {
	cfg   config.Config
	rules *rules.Rulebook
	dir   *directory.Directory
	svc   *pipeline.Service
	log   *zap.Logger

	now func() time.Time
}

func NewHandler(cfg config.Config, rb *rules.Rulebook, dir *directory.Directory, svc *pipeline.Service, log *zap.Logger) *Handler {
	return &Handler{cfg: cfg, rules: rb, dir: dir, svc: svc, log: log, now: time.Now}
}

// Handle runs the command in body, if it is one. The group name identifies
// the customer. Returns the reply text and whether the body was a command.
func (h *Handler) Handle(group, body string) (string, bool) {
	body = strings.TrimSpace(body)
	lower := strings.ToLower(body)
	tagged := strings.Contains(lower, "@bot") || strings.Contains(lower, "@pa bot")

	switch {
	case isHelp(lower, tagged):
		return helpText, true

	case strings.HasPrefix(lower, "@bot edit") || strings.HasPrefix(lower, "@pa bot edit"):
		customers := h.dir.MatchGroupName(group)
		if len(customers) == 0 {
			return noCustomerReply, true
		}
		edits := ParseEdits(body)
		if len(edits) == 0 {
			return "⚠️ ບໍ່ພົບຂໍ້ມູນທີ່ຕ້ອງການແກ້ໄຂ.\nຮູບແບບ:\n@bot edit\n123 -> 456\n789 -> 000", true
		}
		return h.Revise(customers, edits), true

	case tagged && strings.Contains(lower, "postpone"):
		req, ok := ParsePostpone(body)
		if !ok {
			return "", false
		}
		customers := h.dir.MatchGroupName(group)
		if len(customers) == 0 {
			return noCustomerReply, true
		}
		if len(req.Items) == 0 {
			return "⚠️ ກະລຸນາລະບຸເລກລົດ.", true
		}
		return h.Postpone(group, customers, req), true

	case strings.HasPrefix(lower, "@bot create") || strings.HasPrefix(lower, "@pa bot create"):
		input := reCommandWords.ReplaceAllString(body, "")
		input = strings.TrimSpace(input)
		if len(input) < 5 {
			return createHelpText, true
		}
		return h.Create(group, input), true
	}

	return "", false
}

func isHelp(lower string, tagged bool) bool {
	if lower == "help" || lower == "ຊ່ອຍ" || lower == "ຊ່ວຍ" {
		return true
	}
	return tagged && (strings.Contains(lower, "help") ||
		strings.Contains(lower, "ຊ່ອຍ") || strings.Contains(lower, "ຊ່ວຍ"))
}
