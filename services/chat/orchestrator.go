package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"savoria/models"
	"savoria/services/intent"
	"savoria/services/paypal"

	"go.uber.org/zap"
)

const helpMessage = "👋 Hi! I can show you our menu, look up prices, describe dishes, " +
	"and take an order. Try \"show me the menu\", \"price of margherita pizza\", " +
	"or \"order a veggie burrito\"."

var (
	greetingWords = map[string]struct{}{
		"hello": {}, "hi": {}, "hey": {}, "howdy": {}, "greetings": {},
	}
	greetingPhrases = []string{"good morning", "good afternoon", "good evening"}

	priceKeywords   = []string{"price", "cost", "how much"}
	orderKeywords   = []string{"order", "buy", "purchase", "checkout", "i'll take", "ill take"}
	optionsKeywords = []string{
		"what else", "something else", "anything else", "more options",
		"other options", "suggest", "recommend", "else",
	}

	// RFC-lite: local@domain.tld is good enough for invoice delivery.
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	queryStopwords = map[string]struct{}{
		"the": {}, "a": {}, "an": {}, "do": {}, "you": {}, "have": {},
		"what": {}, "whats": {}, "is": {}, "are": {}, "of": {}, "for": {},
		"me": {}, "show": {}, "list": {}, "all": {}, "your": {}, "i": {},
		"want": {}, "can": {}, "get": {}, "please": {}, "to": {}, "some": {},
	}
)

// turnContext carries one turn through the stage pipeline. Stages may
// mutate record and state; the driver persists state once at the end.
type turnContext struct {
	utterance string
	lower     string
	history   []models.Turn
	state     *models.ConversationState
	record    models.IntentRecord
}

// HandleTurn runs one logical turn through the ordered stages, the
// first stage producing a reply wins. State is persisted before the
// reply is returned; history is never mutated here.
func (s *DefaultChatService) HandleTurn(ctx context.Context, sessionID, message string, history []models.Turn) (string, error) {
	state, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		// A lost session degrades to a fresh one rather than failing the turn.
		s.Logger.Warn("session load failed, starting fresh", zap.String("sessionID", sessionID), zap.Error(err))
		state = &models.ConversationState{}
	}

	tc := &turnContext{
		utterance: strings.TrimSpace(message),
		lower:     strings.ToLower(strings.TrimSpace(message)),
		history:   history,
		state:     state,
	}

	reply := s.runStages(ctx, tc)

	if err := s.Sessions.Set(ctx, sessionID, tc.state); err != nil {
		s.Logger.Warn("session save failed", zap.String("sessionID", sessionID), zap.Error(err))
	}
	return reply, nil
}

func (s *DefaultChatService) runStages(ctx context.Context, tc *turnContext) string {
	// 1. Order-capture continuation runs before intent resolution: an
	// email address is not an intent.
	if reply := s.stageOrderCapture(ctx, tc); reply != "" {
		return reply
	}

	tc.record = s.Resolver.Resolve(ctx, tc.utterance, tc.history)

	// 2. Greeting shortcut.
	if reply := s.stageGreeting(tc); reply != "" {
		return reply
	}

	// 3. Context-filled price query (mutates record, falls through).
	s.stageContextPriceRecovery(ctx, tc)

	// 4. Order initiation.
	if reply := s.stageOrderInitiation(ctx, tc); reply != "" {
		return reply
	}

	// 5+6. Category inference and pizza normalization (mutators).
	s.stageCategoryInference(tc)
	s.stagePizzaNormalize(tc)

	// 7. "More options" follow-up.
	if reply := s.stageMoreOptions(ctx, tc); reply != "" {
		return reply
	}

	// 8. Primary intent handling, always terminal.
	return s.stagePrimary(ctx, tc)
}

// --- Stage 1: order capture ---

func (s *DefaultChatService) stageOrderCapture(ctx context.Context, tc *turnContext) string {
	if !tc.state.AwaitingEmail {
		return ""
	}

	email := emailRe.FindString(tc.utterance)
	if email == "" {
		return "That doesn't look like a valid email address. Please send one like " +
			"name@example.com so I can email your invoice."
	}

	if len(tc.state.PendingOrderItems) == 0 {
		// Session expired mid-flow, or an earlier failure cleared the cart.
		tc.state.ResetOrder()
		return "It looks like your cart was lost along the way. Please start your " +
			"order again, e.g. \"order margherita pizza\"."
	}

	snap := s.Catalog.Snapshot(ctx)
	var lines []paypal.InvoiceLine
	currency := "USD"
	for _, ol := range tc.state.PendingOrderItems {
		item, ok := snap.ByID(ol.ID)
		if !ok || !item.Priced() {
			// Unresolvable lines are dropped silently.
			continue
		}
		if len(lines) == 0 {
			currency = item.Currency
		}
		lines = append(lines, paypal.NewInvoiceLine(item.Name, ol.Quantity, item.Price, item.Currency))
	}

	// Cleared regardless of the invoicing outcome.
	tc.state.ResetOrder()

	if len(lines) == 0 {
		return "I couldn't price the items in your cart anymore. Please start your order again."
	}

	invoiceID, err := s.Invoicer.CreateAndSendInvoice(ctx, email, lines, currency)
	if err != nil {
		s.Logger.Error("invoice flow failed", zap.String("email", email), zap.Error(err))
		return fmt.Sprintf("⚠️ Could not create invoice: %v. Please try again.", err)
	}
	return fmt.Sprintf("🧾 Done! Invoice %s has been emailed to %s. Check your inbox for the payment link.",
		invoiceID, email)
}

// --- Stage 2: greeting ---

func (s *DefaultChatService) stageGreeting(tc *turnContext) string {
	if !intentIsOther(tc.record.Intent) {
		return ""
	}
	for _, tok := range strings.Fields(strings.Trim(tc.lower, "?!.,")) {
		if _, ok := greetingWords[strings.Trim(tok, "?!.,")]; ok {
			return helpMessage
		}
	}
	for _, phrase := range greetingPhrases {
		if strings.Contains(tc.lower, phrase) {
			return helpMessage
		}
	}
	return ""
}

// --- Stage 3: context-filled price query ---

func (s *DefaultChatService) stageContextPriceRecovery(ctx context.Context, tc *turnContext) {
	if tc.record.ProductName != "" {
		return
	}
	isPriceQuery := tc.record.Intent == models.IntentPriceQuery
	if !isPriceQuery && !(intentIsOther(tc.record.Intent) && containsAny(tc.lower, priceKeywords)) {
		return
	}

	if prev := previousUserTurn(tc.history, tc.utterance); prev != "" {
		if matches := s.Matcher.Search(ctx, prev, false); len(matches) > 0 {
			top := matches[0]
			tc.record = models.IntentRecord{Intent: models.IntentPriceQuery, ProductName: top.Name}
			tc.state.LastProduct = &models.ProductRef{ID: top.ID, Name: top.Name}
			return
		}
	}
	if tc.state.LastProduct != nil {
		tc.record = models.IntentRecord{
			Intent:      models.IntentPriceQuery,
			ProductName: tc.state.LastProduct.Name,
		}
	}
}

// --- Stage 4: order initiation ---

func (s *DefaultChatService) stageOrderInitiation(ctx context.Context, tc *turnContext) string {
	if !containsAny(tc.lower, orderKeywords) {
		return ""
	}

	target := tc.record.ProductName
	if target == "" {
		target = stripOrderWords(tc.lower)
	}
	if target == "" {
		target = tc.utterance
	}

	matches := s.Matcher.Search(ctx, target, false)
	if len(matches) == 0 {
		return fmt.Sprintf("I couldn't find anything matching '%s' on the menu. "+
			"Please try again with a specific product name.", target)
	}

	names := distinctNames(matches)
	if len(names) > 1 {
		list := renderOptionList("I found a few matches", matches, 5)
		return list + "\nWhich one would you like to order?"
	}

	item := matches[0]
	tc.state.PendingOrderItems = []models.OrderLine{{ID: item.ID, Name: item.Name, Quantity: 1}}
	tc.state.AwaitingEmail = true
	tc.state.LastProduct = &models.ProductRef{ID: item.ID, Name: item.Name}

	priceNote := ""
	if item.Priced() {
		priceNote = fmt.Sprintf(" (%s %s)", item.Price, item.Currency)
	}
	return fmt.Sprintf("🛒 Added %s%s to your order. What email address should I send the invoice to?",
		item.Name, priceNote)
}

// --- Stage 5: category inference ---

func (s *DefaultChatService) stageCategoryInference(tc *turnContext) {
	if !intentIsOther(tc.record.Intent) {
		return
	}
	cat := intent.DetectCategory(tc.lower)
	if cat == "" {
		cat = intent.DetectCategory(previousUserTurn(tc.history, tc.utterance))
	}
	if cat == "" {
		return
	}
	tc.record = models.IntentRecord{
		Intent:      models.IntentListProducts,
		Category:    cat,
		SearchTerms: intent.CategoryTerms(cat),
	}
	tc.state.LastCategory = cat
}

// --- Stage 6: pizza normalization ---

func (s *DefaultChatService) stagePizzaNormalize(tc *turnContext) {
	if tc.record.Intent != models.IntentListProducts {
		return
	}
	if strings.Contains(strings.ToLower(tc.record.ProductName), "pizza") ||
		tc.record.Category == "pizza" ||
		strings.Contains(tc.lower, "pizza") {
		tc.record.Intent = models.IntentPizzaTypes
		tc.record.Category = "pizza"
		tc.state.LastCategory = "pizza"
	}
}

// --- Stage 7: "more options" follow-up ---

func (s *DefaultChatService) stageMoreOptions(ctx context.Context, tc *turnContext) string {
	if !intentIsOther(tc.record.Intent) && tc.record.Intent != models.IntentSuggest {
		return ""
	}
	if !containsAny(tc.lower, optionsKeywords) {
		return ""
	}

	prev := previousUserTurn(tc.history, tc.utterance)
	if strings.Contains(strings.ToLower(prev), "pizza") {
		return s.renderPizzaTypes(ctx, tc)
	}
	if prev != "" {
		if matches := s.Matcher.Search(ctx, prev, false); len(matches) > 0 {
			if list := renderOptionList("Here are some options", matches, maxShownItems); list != "" {
				return list
			}
		}
	}
	if cat := tc.state.LastCategory; cat != "" {
		if recs := s.categoryPicks(ctx, cat, 5); recs != "" {
			return recs
		}
	}
	return ""
}

// categoryPicks renders recommendations for a category: priced items
// first, then unpriced, alphabetical within each group.
func (s *DefaultChatService) categoryPicks(ctx context.Context, category string, max int) string {
	snap := s.Catalog.Snapshot(ctx)
	terms := intent.CategoryTerms(category)
	var items []models.CatalogItem
	for _, it := range snap.Items {
		if nameContainsAny(it.Name, terms) {
			items = append(items, it)
		}
	}
	priced, unpriced := splitPriced(items)
	title := fmt.Sprintf("%s More %s picks", intent.CategoryGlyph(category), category)
	return renderItemBlock(title, priced, unpriced, max)
}

// --- Stage 8: primary intent handling ---

func (s *DefaultChatService) stagePrimary(ctx context.Context, tc *turnContext) string {
	switch {
	case tc.record.Intent == models.IntentListProducts || tc.record.Intent == models.IntentSuggest:
		return s.renderListing(ctx, tc)
	case tc.record.Intent == models.IntentPizzaTypes:
		return s.renderPizzaTypes(ctx, tc)
	case tc.record.ProductName != "":
		return s.renderNamedProduct(ctx, tc)
	case tc.record.Intent == models.IntentPriceQuery:
		// Context recovery already failed; terminal clarification.
		return "Which product would you like the price for?"
	default:
		return "Sorry, I didn't understand that. " + helpMessage
	}
}

func (s *DefaultChatService) renderListing(ctx context.Context, tc *turnContext) string {
	snap := s.Catalog.Snapshot(ctx)
	terms := s.listingTerms(tc)

	var matched []models.CatalogItem
	for _, it := range snap.Items {
		if nameContainsAny(it.Name, terms) {
			matched = append(matched, it)
		}
	}
	if len(matched) > 0 {
		priced, unpriced := splitPriced(matched)
		return renderItemBlock(s.listingTitle(tc), priced, unpriced, maxShownItems)
	}

	// Nothing matched directly; try word-overlap suggestions for the query.
	query := tc.record.ProductName
	if query == "" {
		query = strings.Join(terms, " ")
	}
	if query != "" {
		if names := s.Matcher.Suggest(ctx, query, maxShownItems); len(names) > 0 {
			items := itemsByNames(snap.Items, names)
			if list := renderOptionList("Did you mean one of these?", items, maxShownItems); list != "" {
				return list
			}
		}
	}

	// Last resort: show generally priced items as popular picks.
	priced, _ := splitPriced(snap.Items)
	if block := renderItemBlock("🌟 Popular items", priced, nil, maxShownItems); block != "" {
		return block
	}
	return "The menu appears to be empty right now. Please try again in a moment."
}

func (s *DefaultChatService) listingTerms(tc *turnContext) []string {
	if len(tc.record.SearchTerms) > 0 {
		return tc.record.SearchTerms
	}
	if tc.record.Category != "" {
		return intent.CategoryTerms(tc.record.Category)
	}
	// Stopword-filtered tokenization of the utterance, capped.
	var terms []string
	for _, tok := range strings.Fields(strings.Trim(tc.lower, "?!.,")) {
		tok = strings.Trim(tok, "?!.,")
		if tok == "" {
			continue
		}
		if _, stop := queryStopwords[tok]; stop {
			continue
		}
		terms = append(terms, tok)
		if len(terms) == 4 {
			break
		}
	}
	return terms
}

func (s *DefaultChatService) listingTitle(tc *turnContext) string {
	if tc.record.Category != "" {
		glyph := intent.CategoryGlyph(tc.record.Category)
		return fmt.Sprintf("%s %s options", glyph, strings.ToUpper(tc.record.Category[:1])+tc.record.Category[1:])
	}
	return "📋 Menu matches"
}

func (s *DefaultChatService) renderPizzaTypes(ctx context.Context, tc *turnContext) string {
	snap := s.Catalog.Snapshot(ctx)

	var pizzas []models.CatalogItem
	for _, it := range snap.Items {
		if strings.Contains(strings.ToLower(it.Name), "pizza") {
			pizzas = append(pizzas, it)
		}
	}
	if len(pizzas) == 0 {
		return "🍕 We don't have any pizza products right now."
	}

	tc.state.LastCategory = "pizza"

	priced, unpriced := splitPriced(pizzas)
	if len(priced) == 0 {
		names := make([]string, 0, len(unpriced))
		for _, it := range unpriced {
			names = append(names, it.Name)
		}
		return renderNameList("🍕 Pizza types", names)
	}

	var lines []string
	for _, it := range priced {
		lines = append(lines, formatItemLine(it))
	}
	out := fmt.Sprintf("🍕 Available Pizza Types (%d found):\n%s", len(priced), strings.Join(lines, "\n"))
	if len(unpriced) > 0 {
		out += fmt.Sprintf("\n+%d more", len(unpriced))
	}
	return out
}

func (s *DefaultChatService) renderNamedProduct(ctx context.Context, tc *turnContext) string {
	name := tc.record.ProductName
	matches := s.Matcher.Search(ctx, name, false)
	if len(matches) == 0 {
		if sugg := s.Matcher.Suggest(ctx, name, 3); len(sugg) > 0 {
			return fmt.Sprintf("No exact match for '%s'. Did you mean: %s?", name, strings.Join(sugg, ", "))
		}
		snap := s.Catalog.Snapshot(ctx)
		return fmt.Sprintf("No product found with name '%s'. Searched %d total products.", name, len(snap.Items))
	}

	top := matches[0]
	tc.state.LastProduct = &models.ProductRef{ID: top.ID, Name: top.Name}
	if cat := intent.DetectCategory(top.Name); cat != "" {
		tc.state.LastCategory = cat
	}

	similarNote := ""
	if len(matches) > 1 {
		similarNote = fmt.Sprintf("\n\n(Found %d similar products)", len(matches))
	}

	switch tc.record.Intent {
	case models.IntentPriceQuery:
		if top.Priced() {
			return fmt.Sprintf("💰 %s: %s %s%s", top.Name, top.Price, top.Currency, similarNote)
		}
		if cat := tc.state.LastCategory; cat != "" {
			if picks := s.categoryPicks(ctx, cat, 5); picks != "" {
				return fmt.Sprintf("'%s' doesn't have a price set right now. Some alternatives:\n%s",
					top.Name, picks)
			}
		}
		return fmt.Sprintf("'%s' exists but doesn't have a price set right now.%s", top.Name, similarNote)

	case models.IntentProductInfo:
		glyph := intent.CategoryGlyph(tc.state.LastCategory)
		if glyph == "" {
			glyph = "ℹ️"
		}
		desc := top.Description
		if desc == "" {
			desc = "Sorry, I don't have detailed information about this product right now."
		}
		reply := fmt.Sprintf("%s %s\n\n%s", glyph, top.Name, desc)
		if top.Priced() {
			reply += fmt.Sprintf("\n\n💰 Price: %s %s", top.Price, top.Currency)
		} else {
			reply += "\n\n💰 Price: Not set"
		}
		return reply + similarNote

	default:
		if len(matches) > 1 {
			return renderOptionList("Here's what I found", matches, maxShownItems)
		}
		return fmt.Sprintf("✅ '%s' is available.%s", top.Name, similarNote)
	}
}

// --- helpers ---

func intentIsOther(i models.Intent) bool {
	return i == "" || i == models.IntentOther
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func nameContainsAny(name string, terms []string) bool {
	low := strings.ToLower(name)
	for _, t := range terms {
		if t != "" && strings.Contains(low, t) {
			return true
		}
	}
	return false
}

// previousUserTurn returns the most recent user turn that isn't the
// current utterance. Transports differ on whether the current message
// is already appended to the history they send.
func previousUserTurn(history []models.Turn, current string) string {
	cur := strings.TrimSpace(strings.ToLower(current))
	for i := len(history) - 1; i >= 0; i-- {
		t := history[i]
		if !strings.EqualFold(t.Speaker, models.SpeakerUser) && !strings.EqualFold(t.Speaker, "you") {
			continue
		}
		if strings.TrimSpace(strings.ToLower(t.Text)) == cur {
			continue
		}
		return t.Text
	}
	return ""
}

// stripOrderWords removes order keywords and articles so the remainder
// can be matched as a product name.
func stripOrderWords(lower string) string {
	out := lower
	for _, kw := range orderKeywords {
		out = strings.ReplaceAll(out, kw, " ")
	}
	var kept []string
	for _, tok := range strings.Fields(out) {
		tok = strings.Trim(tok, "?!.,")
		switch tok {
		case "a", "an", "the", "please", "me", "i", "want", "would", "like", "some":
			continue
		}
		if tok != "" {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

func distinctNames(items []models.CatalogItem) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, it := range items {
		low := strings.ToLower(it.Name)
		if _, dup := seen[low]; dup {
			continue
		}
		seen[low] = struct{}{}
		names = append(names, it.Name)
	}
	return names
}

func itemsByNames(items []models.CatalogItem, names []string) []models.CatalogItem {
	idx := make(map[string]models.CatalogItem, len(items))
	for _, it := range items {
		idx[strings.ToLower(it.Name)] = it
	}
	var out []models.CatalogItem
	for _, n := range names {
		if it, ok := idx[strings.ToLower(n)]; ok {
			out = append(out, it)
		}
	}
	return out
}
