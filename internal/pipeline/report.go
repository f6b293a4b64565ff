package pipeline

import (
	"fmt"
	"strings"

	"yardgate/internal"
)

// Reply texts go back to the submitting chat group, in Lao, mirroring what
// the gate team always answered by hand.

const (
	replyGreeting  = "ສະບາຍດີທີມງານແຈ້ງລົດ 🤖\n🚫 ຟາຍມີຂໍ້ຜິດພາດດັ່ງນີ້:\n\n"
	replyAccepted  = "✅ ບໍ່ມີຂໍ້ຜິດພາດ. ໄຟລ໌ຖືກບັນທຶກລົງຖານຂໍ້ມູນ"
	replyCleaned   = "🧹 ຈັດລະບຽບຂໍ້ມູນ, ✅ ບໍ່ມີຂໍ້ຜິດພາດ. ໄຟລ໌ຖືກບັນທຶກລົງຖານຂໍ້ມູນ"
	replyRemark    = "\n\n⚠️ ກະລຸນາລະບຸປະເພດສິນຄ້າໃນຫ້ອງ Remark (ໝາຍເຫດ) 🙏"
	replyDuplicate = "🔁 ເນື້ອໃນຂອງໄຟລ໌ຊ້ຳກັບໄຟລ໌ທີ່ເຄີຍສົ່ງ."
	replyDegraded  = "\n\n⚠️ ມີບາງຂັ້ນຕອນພາຍໃນຜິດພາດ, ກະລຸນາແຈ້ງແອດມິນກວດສອບ 🙏"
)

// FormatErrorReply renders a rejected manifest's report, one block per row in
// row order.
func FormatErrorReply(report *internal.ValidationReport) string {
	var b strings.Builder
	b.WriteString(replyGreeting)

	if report.DateError != "" {
		fmt.Fprintf(&b, "🔸 *ຂໍ້ຜິດພາດວັນທີ*\n- %s\n\n", report.DateError)
	}
	for _, row := range report.Rows {
		fmt.Fprintf(&b, "🔸 *ລຳດັບທີ %d*\n", row.Row)
		for _, p := range row.Problems {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// FormatAcceptedReply renders the success message.
func FormatAcceptedReply(cleaned, missingRemark bool) string {
	msg := replyAccepted
	if cleaned {
		msg = replyCleaned
	}
	if missingRemark {
		msg += replyRemark
	}
	return msg
}

func DuplicateReply() string { return replyDuplicate }
