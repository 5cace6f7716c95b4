package bot

import (
	"fmt"

	"finguide/internal/core"
)

// Message texts carried over from the original bot, kept as pure
// functions so formatting stays testable without a live session.

func welcomeMessage(firstName string) string {
	if firstName == "" {
		firstName = "there"
	}
	return fmt.Sprintf(`👋 Hi, %s!

Welcome to *FinGuide* 🚀

Here you can:
• 📈 Track income and expenses
• 🎯 Set financial goals
• 📊 Analyze your statistics
• 💰 Manage investments
• 🧠 Get personal advice

Tap the button below to open the app 👇`, firstName)
}

func helpMessage() string {
	return `📚 Available commands:

/start - Start working with the bot
/help - Show this message
/stats - Get a quick statistics overview
/reset - Wipe your data (careful!)

💡 Tap "Open finance tracker" for the full app experience!`
}

func statsMessage(p core.Profile, currency string) string {
	return fmt.Sprintf(`📊 Your financial statistics:

💰 Balance: *%s*
📈 Income (month): *%s*
📉 Expenses (month): *%s*
💎 Savings: *%.1f%%*
🏆 Financial health: *%d/100*

🎯 Main goal: %s`,
		p.Balance.Format(currency),
		p.MonthlyIncome.Format(currency),
		p.MonthlyExpenses.Format(currency),
		p.SavingsPercent,
		p.FinancialHealth,
		p.MainGoal)
}
