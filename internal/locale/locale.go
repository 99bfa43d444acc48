// Package locale holds the user-facing messages shown by the upload and
// progress surfaces, in English and Vietnamese.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

type Locale string

const (
	English    Locale = "en"
	Vietnamese Locale = "vi"
)

type Key string

const (
	MsgUploading         Key = "uploading"
	MsgProcessingFile    Key = "processing_file"
	MsgFileProcessed     Key = "file_processed"
	MsgAIAnalysis        Key = "ai_analysis"
	MsgBuildingReport    Key = "building_report"
	MsgReceivingResult   Key = "receiving_result"
	MsgFinalizing        Key = "finalizing"
	MsgDone              Key = "done"
	MsgDemoScoring       Key = "demo_scoring"
	MsgFileTooLarge      Key = "file_too_large"
	MsgUnsupportedFormat Key = "unsupported_format"
	MsgCorruptDOCX       Key = "corrupt_docx"
	MsgExtractionFailed  Key = "extraction_failed"
	MsgAITimeout         Key = "ai_timeout"
	MsgAIFailed          Key = "ai_failed"
	MsgJobNotFound       Key = "job_not_found"
	MsgInvalidJobID      Key = "invalid_job_id"
	MsgMissingFile       Key = "missing_file"
	MsgServerBusy        Key = "server_busy"
	MsgCancelled         Key = "cancelled"
	MsgInternal          Key = "internal"

	// Report rendering
	MsgTierExcellent     Key = "tier_excellent"
	MsgTierGood          Key = "tier_good"
	MsgTierFair          Key = "tier_fair"
	MsgTierPoor          Key = "tier_poor"
	MsgTierLow           Key = "tier_low"
	MsgStrengths         Key = "strengths"
	MsgWeaknesses        Key = "weaknesses"
	MsgMatchingSkills    Key = "matching_skills"
	MsgMissingSkills     Key = "missing_skills"
	MsgSuggestions       Key = "suggestions"
	MsgDegradedNotice    Key = "degraded_notice"
	MsgPlaceholderNotice Key = "placeholder_notice"
)

var messages = map[Locale]map[Key]string{
	English: {
		MsgUploading:         "Uploading CV to the server...",
		MsgProcessingFile:    "Processing CV file...",
		MsgFileProcessed:     "CV file processed",
		MsgAIAnalysis:        "Analyzing CV with AI...",
		MsgBuildingReport:    "Building detailed report...",
		MsgReceivingResult:   "Receiving result from AI...",
		MsgFinalizing:        "Finalizing report...",
		MsgDone:              "Analysis complete!",
		MsgDemoScoring:       "Scoring in demo mode...",
		MsgFileTooLarge:      "File exceeds size limit (10MB).",
		MsgUnsupportedFormat: "Format not supported. Use PDF, DOCX, JPG or PNG.",
		MsgCorruptDOCX:       "Cannot read the DOCX file. Check whether it is damaged.",
		MsgExtractionFailed:  "Cannot read text from this file. Try a clearer or different file.",
		MsgAITimeout:         "AI response took too long. Try again or use demo mode.",
		MsgAIFailed:          "AI scoring failed. Switching to demo mode...",
		MsgJobNotFound:       "Job not found.",
		MsgInvalidJobID:      "A valid job id is required.",
		MsgMissingFile:       "Attach a CV file in the cvFile field.",
		MsgServerBusy:        "Server is busy. Try again in a moment.",
		MsgCancelled:         "Request cancelled.",
		MsgInternal:          "Something went wrong. Try again.",
		MsgTierExcellent:     "🌟 Excellent! Your CV is a strong match for this job.",
		MsgTierGood:          "👍 Good! The CV has many strengths and needs a few small improvements.",
		MsgTierFair:          "⚖️ Fair. The CV needs work to fit the requirements better.",
		MsgTierPoor:          "📈 Needs improvement. See the suggestions below.",
		MsgTierLow:           "🔧 Needs major rework. The CV does not fit yet, see the detailed suggestions.",
		MsgStrengths:         "Strengths",
		MsgWeaknesses:        "Weaknesses",
		MsgMatchingSkills:    "Matching skills",
		MsgMissingSkills:     "Missing skills",
		MsgSuggestions:       "Suggestions",
		MsgDegradedNotice:    "AI scoring was unavailable. This is a demo-mode estimate.",
		MsgPlaceholderNotice: "The PDF could not be read. The analysis uses sample CV content.",
	},
	Vietnamese: {
		MsgUploading:         "Đang tải CV lên server...",
		MsgProcessingFile:    "Đang xử lý file CV...",
		MsgFileProcessed:     "Đã xử lý xong file CV",
		MsgAIAnalysis:        "Đang phân tích CV với AI...",
		MsgBuildingReport:    "Đang tạo báo cáo chi tiết...",
		MsgReceivingResult:   "Đang nhận kết quả từ AI...",
		MsgFinalizing:        "Đang hoàn thiện báo cáo...",
		MsgDone:              "Hoàn thành phân tích!",
		MsgDemoScoring:       "Đang chấm điểm ở chế độ demo...",
		MsgFileTooLarge:      "File vượt quá giới hạn dung lượng (10MB).",
		MsgUnsupportedFormat: "Định dạng file không được hỗ trợ. Hãy dùng PDF, DOCX, JPG hoặc PNG.",
		MsgCorruptDOCX:       "Không thể đọc file DOCX. Vui lòng kiểm tra file có bị hỏng không.",
		MsgExtractionFailed:  "Không thể đọc nội dung file. Vui lòng dùng file rõ nét hơn.",
		MsgAITimeout:         "AI phản hồi quá lâu. Vui lòng thử lại hoặc dùng chế độ demo.",
		MsgAIFailed:          "Chấm điểm AI thất bại. Đang chuyển sang chế độ demo...",
		MsgJobNotFound:       "Không tìm thấy công việc.",
		MsgInvalidJobID:      "Cần có mã công việc hợp lệ.",
		MsgMissingFile:       "Vui lòng đính kèm file CV trong trường cvFile.",
		MsgServerBusy:        "Hệ thống đang bận. Vui lòng thử lại sau.",
		MsgCancelled:         "Yêu cầu đã bị hủy.",
		MsgInternal:          "Có lỗi xảy ra. Vui lòng thử lại.",
		MsgTierExcellent:     "🌟 Xuất sắc! CV của bạn rất phù hợp với công việc này.",
		MsgTierGood:          "👍 Tốt! CV có nhiều điểm mạnh, cần cải thiện một số điểm nhỏ.",
		MsgTierFair:          "⚖️ Khá ổn! CV cần được cải thiện để phù hợp hơn với yêu cầu.",
		MsgTierPoor:          "📈 Cần cải thiện! Hãy xem gợi ý bên dưới để nâng cao CV.",
		MsgTierLow:           "🔧 Cần tu chỉnh nhiều! CV chưa phù hợp, hãy tham khảo gợi ý chi tiết.",
		MsgStrengths:         "Điểm mạnh",
		MsgWeaknesses:        "Điểm yếu",
		MsgMatchingSkills:    "Kỹ năng phù hợp",
		MsgMissingSkills:     "Kỹ năng còn thiếu",
		MsgSuggestions:       "Gợi ý cải thiện",
		MsgDegradedNotice:    "AI tạm thời không khả dụng. Đây là kết quả ước tính ở chế độ demo.",
		MsgPlaceholderNotice: "Không đọc được file PDF. Phân tích đang dùng nội dung CV mẫu.",
	},
}

var (
	supported = []language.Tag{language.English, language.Vietnamese}
	matcher   = language.NewMatcher(supported)
)

// Message returns the text for key, falling back to English.
func Message(loc Locale, key Key) string {
	if table, ok := messages[loc]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[English][key]; ok {
		return msg
	}
	return string(key)
}

// Parse maps a configured locale string onto a supported locale.
func Parse(value string, fallback Locale) Locale {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "en", "english":
		return English
	case "vi", "vietnamese":
		return Vietnamese
	default:
		return fallback
	}
}

// FromAcceptLanguage picks the best supported locale for an Accept-Language header.
func FromAcceptLanguage(header string, fallback Locale) Locale {
	if strings.TrimSpace(header) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	if supported[idx] == language.Vietnamese {
		return Vietnamese
	}
	return English
}
