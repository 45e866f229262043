package common

// メッセージの絵文字定数
const (
	ErrorIcon   = "❌"
	WarningIcon = "⚠️"
	SearchIcon  = "🔍"
	InfoIcon    = "📋"
	DeployIcon  = "🚀"
	PartyIcon   = "🎉"
)

// メッセージフォーマット定数
const (
	// 処理中メッセージ
	SearchingFormat = "%s %s を検索中..."
)
