// Package plugin defines the contract implemented by modelpath plugins.
//
// A plugin is an independently loaded unit that observes and mutates the
// records flowing through the host at four named extension points (hooks):
// agent_init, generate_request, generate_response, and chat_message. Plugins
// additionally may declare schema extensions: fields they want visible on the
// host's data models without modifying host code.
//
// Implementations embed Base to pick up identity behavior for the hooks they
// do not care about:
//
//	type TokenBudget struct {
//	    plugin.Base
//	}
//
//	func (p *TokenBudget) Name() string    { return "token-budget" }
//	func (p *TokenBudget) Version() string { return "1.0.0" }
//
//	func (p *TokenBudget) OnGenerateRequest(ctx context.Context, rec plugin.Record) (plugin.Record, error) {
//	    rec["max_tokens"] = 2048
//	    return rec, nil
//	}
//
// Plugins built from closures use the Builder, which the Lua loader also uses
// when turning discovered scripts into registered plugins.
package plugin
