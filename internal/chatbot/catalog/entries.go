package catalog

// entries is indexed by category id. Names follow the Banking77 label set.
var entries = [Size]Entry{
	{ID: 0, Name: "activate_my_card", Response: "To activate your new card, you can:\n1. Open the mobile app and go to the 'Cards' section\n2. Select 'Activate Card' and follow the on-screen instructions\n3. Or, you can call our customer support line and they'll be happy to assist you."},
	{ID: 1, Name: "age_limit", Response: "To ensure you're eligible, please check our age requirements on the website or contact support for assistance."},
	{ID: 2, Name: "apple_pay_or_google_pay", Response: "You can use Apple Pay or Google Pay by linking your card in the respective app settings."},
	{ID: 3, Name: "atm_support", Response: "For ATM support, please visit our nearest branch or contact customer service."},
	{ID: 4, Name: "automatic_top_up", Response: "To set up automatic top-up, visit the app and choose 'Automatic Top-Up' under account settings."},
	{ID: 5, Name: "balance_not_updated_after_bank_transfer", Response: "If your balance isn't updated after a bank transfer, please wait a few hours or contact support."},
	{ID: 6, Name: "balance_not_updated_after_cheque_or_cash_deposit", Response: "Please check with your bank regarding cheque or cash deposit updates."},
	{ID: 7, Name: "beneficiary_not_allowed", Response: "If a beneficiary is not allowed, please review our beneficiary policy or contact customer support."},
	{ID: 8, Name: "cancel_transfer", Response: "To cancel a transfer, please go to the 'Transfers' section in the app and select 'Cancel'."},
	{ID: 9, Name: "card_about_to_expire", Response: "If your card is about to expire, you will receive a new card automatically before the expiration date."},
	{ID: 10, Name: "card_acceptance", Response: "To check card acceptance, please refer to our list of supported merchants on our website."},
	{ID: 11, Name: "card_arrival", Response: "Your card will arrive in 5-7 business days via standard mail."},
	{ID: 12, Name: "card_delivery_estimate", Response: "You can expect your card delivery to take up to 10 business days."},
	{ID: 13, Name: "card_linking", Response: "Follow the app instructions to link your card, or contact support for help."},
	{ID: 14, Name: "card_not_working", Response: "If your card isn't working, please check for any alerts in the app or contact support."},
	{ID: 15, Name: "card_payment_fee_charged", Response: "Any fees related to card payments will be detailed in your monthly statement."},
	{ID: 16, Name: "card_payment_not_recognised", Response: "If your card payment isn't recognized, please verify your transaction history in the app."},
	{ID: 17, Name: "card_payment_wrong_exchange_rate", Response: "If you believe there’s a wrong exchange rate, please contact our customer support for clarification."},
	{ID: 18, Name: "card_swallowed", Response: "If your card was swallowed by an ATM, please report it immediately to customer support."},
	{ID: 19, Name: "cash_withdrawal_charge", Response: "Cash withdrawal charges apply based on your account type; please refer to our fees page."},
	{ID: 20, Name: "cash_withdrawal_not_recognised", Response: "If your cash withdrawal isn't recognized, please check your transaction history or contact support."},
	{ID: 21, Name: "change_pin", Response: "To change your PIN, please visit the 'Security' section in the app."},
	{ID: 22, Name: "compromised_card", Response: "If you believe your card is compromised, please freeze it in the app and contact support."},
	{ID: 23, Name: "contactless_not_working", Response: "If your contactless payment isn’t working, please ensure your card is enabled for contactless."},
	{ID: 24, Name: "country_support", Response: "For country-specific support, please visit our support page for more details."},
	{ID: 25, Name: "declined_card_payment", Response: "If your card payment was declined, please check for any alerts or contact support."},
	{ID: 26, Name: "declined_cash_withdrawal", Response: "For declined cash withdrawals, please check your balance and limits in the app."},
	{ID: 27, Name: "declined_transfer", Response: "If your transfer was declined, please check the reason in the app or contact support."},
	{ID: 28, Name: "direct_debit_payment_not_recognised", Response: "To verify direct debit payments, please check your account settings or contact support."},
	{ID: 29, Name: "disposable_card_limits", Response: "Disposable card limits can be set in the app under card settings."},
	{ID: 30, Name: "edit_personal_details", Response: "To edit personal details, go to your profile in the app and make the necessary changes."},
	{ID: 31, Name: "exchange_charge", Response: "Exchange charges will be shown during the transaction process."},
	{ID: 32, Name: "exchange_rate", Response: "Current exchange rates can be viewed in the app or on our website."},
	{ID: 33, Name: "exchange_via_app", Response: "You can exchange currency via the app in the 'Exchange' section."},
	{ID: 34, Name: "extra_charge_on_statement", Response: "Extra charges will be detailed in your monthly statement."},
	{ID: 35, Name: "failed_transfer", Response: "If a transfer has failed, please check the details and try again, or contact support."},
	{ID: 36, Name: "fiat_currency_support", Response: "We support various fiat currencies; please check our website for details."},
	{ID: 37, Name: "get_disposable_virtual_card", Response: "To get a disposable virtual card, you can generate one through the app."},
	{ID: 38, Name: "get_physical_card", Response: "To get a physical card, please request one in the app under 'Cards'."},
	{ID: 39, Name: "getting_spare_card", Response: "If you need a spare card, you can request one through the app."},
	{ID: 40, Name: "getting_virtual_card", Response: "You can get a virtual card through the app options."},
	{ID: 41, Name: "lost_or_stolen_card", Response: "If your card is lost or stolen, please report it immediately through the app."},
	{ID: 42, Name: "lost_or_stolen_phone", Response: "If your phone is lost or stolen, please contact support to secure your account."},
	{ID: 43, Name: "order_physical_card", Response: "To order a physical card, please visit the 'Cards' section in the app."},
	{ID: 44, Name: "passcode_forgotten", Response: "If you forgot your passcode, please follow the recovery steps in the app."},
	{ID: 45, Name: "pending_card_payment", Response: "If your card payment is pending, please check your transaction status in the app."},
	{ID: 46, Name: "pending_cash_withdrawal", Response: "Pending cash withdrawals may take a few moments to process."},
	{ID: 47, Name: "pending_top_up", Response: "Pending top-ups can take time; please check your account for updates."},
	{ID: 48, Name: "pending_transfer", Response: "Pending transfers will be shown in your transaction history."},
	{ID: 49, Name: "pin_blocked", Response: "If your PIN is blocked, please follow the reset instructions in the app."},
	{ID: 50, Name: "receiving_money", Response: "For receiving money, please check the 'Receive' section in the app."},
	{ID: 51, Name: "Refund_not_showing_up", Response: "If your refund isn't showing up, please verify with the merchant or contact support."},
	{ID: 52, Name: "request_refund", Response: "To request a refund, please contact support with your transaction details."},
	{ID: 53, Name: "reverted_card_payment?", Response: "If your card payment was reverted, please check the transaction history."},
	{ID: 54, Name: "supported_cards_and_currencies", Response: "We support various cards and currencies; please refer to our website."},
	{ID: 55, Name: "terminate_account", Response: "To terminate your account, please follow the instructions in the app."},
	{ID: 56, Name: "top_up_by_bank_transfer_charge", Response: "A charge may apply for topping up by bank transfer depending on your account type. Please check our fees page for details."},
	{ID: 57, Name: "top_up_by_card_charge", Response: "Top-ups made by card may have a fee depending on your card provider. Please check with them or refer to our fee policy."},
	{ID: 58, Name: "top_up_by_cash_or_cheque", Response: "To top up by cash or cheque, please visit a participating branch or refer to our cash top-up options in the app."},
	{ID: 59, Name: "top_up_failed", Response: "If your top-up has failed, please double-check the details and try again. Contact support if the issue persists."},
	{ID: 60, Name: "top_up_limits", Response: "Top-up limits vary by account type. Please check your app settings under 'Top-Up Limits' or contact support."},
	{ID: 61, Name: "top_up_reverted", Response: "If your top-up was reverted, please confirm the reason in your transaction history or reach out to support."},
	{ID: 62, Name: "topping_up_by_card", Response: "To top up using a card, please go to the 'Top-Up' section in the app and select 'Top-Up by Card'."},
	{ID: 63, Name: "transaction_charged_twice", Response: "If you were charged twice for a transaction, please verify your transaction history and contact support for assistance."},
	{ID: 64, Name: "transfer_fee_charged", Response: "Transfer fees are charged based on the currency and transfer type. Please refer to our fees page for more information."},
	{ID: 65, Name: "transfer_into_account", Response: "To transfer money into your account, please go to the 'Transfer' section in the app for account details."},
	{ID: 66, Name: "transfer_not_received_by_recipient", Response: "If your transfer hasn't been received by the recipient, please verify the details and contact support if needed."},
	{ID: 67, Name: "transfer_timing", Response: "Transfer timing varies by currency and region. Check our website or app for estimated transfer times."},
	{ID: 68, Name: "unable_to_verify_identity", Response: "If you're unable to verify your identity, please ensure your documents are correct and contact support if needed."},
	{ID: 69, Name: "verify_my_identity", Response: "To verify your identity, please follow the steps in the app under 'Verify Identity'."},
	{ID: 70, Name: "verify_source_of_funds", Response: "To verify the source of funds, please provide supporting documents as requested in the app."},
	{ID: 71, Name: "verify_top_up", Response: "To verify your top-up, please follow any prompts in the app or contact support if verification is required."},
	{ID: 72, Name: "virtual_card_not_working", Response: "If your virtual card is not working, please check your app settings or contact support for help."},
	{ID: 73, Name: "visa_or_mastercard", Response: "We support Visa and Mastercard. Please check the app for card-specific options."},
	{ID: 74, Name: "why_verify_identity", Response: "We ask to verify your identity to comply with regulations and ensure account security."},
	{ID: 75, Name: "wrong_amount_of_cash_received", Response: "If you received the wrong amount of cash, please check your transaction history and contact support immediately."},
	{ID: 76, Name: "wrong_exchange_rate_for_cash_withdrawal", Response: "If you believe the exchange rate is incorrect for your cash withdrawal, please reach out to support for assistance."},
}
