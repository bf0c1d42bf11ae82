package workflow

import "order-relay/models"

const emailSubject = "Your Order Status"

const approveEmailBody = `🎉 Congratulations!

Your order has been successfully accepted and is now being processed. You will receive your requested resource within 24 hours.

If we fail to deliver within the timeframe, you may raise a support ticket on our Discord server.

🔗 Join our Discord: https://discord.gg/eXPMuw52hV

Thank you for choosing ArcMC!

– The ArcMC Team`

const declineEmailBody = `❌ Order Declined

We regret to inform you that your recent order could not be processed.

This may have occurred due to one of the following reasons:
- Invalid payment information
- Unauthorized or incorrect username
- Technical issues during checkout

For assistance or to try again, please contact our support team.

🔗 Join our Discord: https://discord.gg/eXPMuw52hV

We apologize for the inconvenience and appreciate your understanding.

– The ArcMC Team`

// templateFor selects the fixed notification text for a decision. The two
// actions map to disjoint templates; nothing in the order data can alter the
// selection.
func templateFor(action models.DecisionAction) (subject, body string) {
	if action == models.ActionAccept {
		return emailSubject, approveEmailBody
	}
	return emailSubject, declineEmailBody
}
