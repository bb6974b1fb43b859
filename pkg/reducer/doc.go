/*
The reducer has the purpose to decide all instances which have 0 chance to need a search.
This is a fast preflight-filter: cheap packing heuristics prove feasibility, and counting
arguments prove infeasibility. Whatever it cannot decide goes to the search engine.
*/
package reducer
