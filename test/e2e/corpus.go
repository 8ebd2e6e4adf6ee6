// Package e2e provides end-to-end tests with a generated paper corpus.
package e2e

import (
	"fmt"
	"strings"
)

// E2EPaper is one corpus document. Words is the exact whitespace-separated
// word count of Text, measured after generation, so tests can derive expected
// token and chunk counts without re-parsing the text.
type E2EPaper struct {
	ID        string
	Title     string
	Signature string
	Text      string
	Words     int
}

// Corpus holds generated papers for E2E tests.
type Corpus struct {
	Papers      []E2EPaper
	TotalPapers int
	TotalWords  int
}

// BuildCorpus returns a corpus of 100 papers with varied lengths. Each paper
// embeds a signature phrase so tests can assert its text survives extraction,
// chunking, and export; lengths are spread so chunk counts range from one to
// several at the chunk sizes the E2E tests use.
func BuildCorpus() *Corpus {
	papers := buildPapers(100)
	c := &Corpus{Papers: papers, TotalPapers: len(papers)}
	for _, p := range papers {
		c.TotalWords += p.Words
	}
	return c
}

func buildPapers(n int) []E2EPaper {
	topics := []struct {
		title     string
		signature string
		body      string
	}{
		{"Scaling Laws for Neural Language Models", "compute optimal scaling laws", "Loss falls predictably as models grow. We fit compute optimal scaling laws across seven orders of magnitude."},
		{"Attention Without Recurrence", "multi head attention", "Recurrence is removed entirely from the architecture. Stacked multi head attention layers carry all cross position information."},
		{"Retrieval Augmented Generation", "retrieval augmented generation grounds", "Parametric memory alone hallucinates facts. Our retrieval augmented generation grounds answers in fetched passages."},
		{"Sparse Mixture of Experts", "sparse expert routing", "Conditional computation decouples parameters from FLOPs. A learned gate performs sparse expert routing per token."},
		{"Low Rank Adaptation of Large Models", "low rank adapter matrices", "Full fine tuning is memory bound. Injecting low rank adapter matrices updates a fraction of the weights."},
		{"Chain of Thought Prompting", "intermediate reasoning steps", "Direct answers fail on multi hop questions. Eliciting intermediate reasoning steps improves arithmetic and symbolic tasks."},
		{"Instruction Tuning at Scale", "instruction tuned checkpoints", "Raw language models ignore user intent. Our instruction tuned checkpoints follow held out task descriptions zero shot."},
		{"Direct Preference Optimization", "preference pairs directly", "Reward modeling adds a fragile stage. We optimize the policy on preference pairs directly with a closed form objective."},
		{"Rotary Position Embeddings", "rotary position encoding", "Absolute positions break length extrapolation. The rotary position encoding injects relative phase into attention."},
		{"Tiled Attention Kernels", "tiled attention kernels", "Materializing the attention matrix is memory bound. Our tiled attention kernels stream softmax statistics through fast memory."},
		{"Speculative Decoding", "draft model speculation", "Autoregressive decoding is latency bound. Verified draft model speculation accepts several tokens per target pass."},
		{"Quantization Aware Training", "four bit quantization", "Post training rounding loses accuracy. Simulated four bit quantization in the forward pass recovers the gap."},
		{"Model Distillation at Scale", "soft label distillation", "Small models trained on hard labels underperform. Matching soft label distillation targets transfers dark knowledge."},
		{"Contrastive Image Text Pretraining", "contrastive image text alignment", "Curated class labels limit coverage. Web scale contrastive image text alignment learns transferable visual features."},
		{"Diffusion Probabilistic Models", "denoising diffusion process", "Adversarial training collapses modes. A learned reverse denoising diffusion process samples sharp images from noise."},
		{"State Space Sequence Models", "selective state space", "Attention cost grows quadratically with length. Our selective state space layer scans sequences in linear time."},
		{"Long Context Extrapolation", "position interpolation stretches", "Models trained short fail long. Simple position interpolation stretches the rotary basis to sixty four thousand tokens."},
		{"Tokenizer Vocabulary Effects", "byte pair vocabulary", "Token granularity shapes compression. A larger byte pair vocabulary trades sequence length for embedding table size."},
		{"Gradient Checkpointing", "recomputed activation checkpoints", "Activations dominate training memory. Strategically recomputed activation checkpoints halve the footprint at modest cost."},
		{"Optimizer State Sharding", "optimizer state sharding", "Replicated moment estimates waste memory. Full optimizer state sharding fits trillion parameter training on commodity clusters."},
		{"Pipeline Parallel Training", "micro batch pipelining", "Layer partitions idle between stages. Interleaved micro batch pipelining keeps every accelerator busy."},
		{"Data Deduplication for Pretraining", "near duplicate filtering", "Repeated passages inflate benchmark scores. Aggressive near duplicate filtering improves held out perplexity."},
		{"Curriculum Data Mixtures", "domain mixture weights", "Uniform sampling over corpora is suboptimal. Learned domain mixture weights shift mass toward high value sources."},
		{"Synthetic Instruction Data", "self generated instructions", "Human annotation does not scale. Filtering self generated instructions bootstraps alignment from a seed set."},
		{"Benchmark Contamination Audits", "n gram overlap audit", "Test leakage corrupts evaluation. Our n gram overlap audit flags contaminated splits in public corpora."},
		{"Calibrated Uncertainty Estimates", "temperature scaled confidence", "Overconfident predictions mislead users. Post hoc temperature scaled confidence aligns probability with accuracy."},
		{"Adversarial Prompt Robustness", "gradient guided suffixes", "Alignment degrades under optimization pressure. Transferable gradient guided suffixes expose shared failure modes across models."},
		{"Mechanistic Interpretability", "induction head circuits", "Attention patterns admit reverse engineering. We isolate induction head circuits that implement in context copying."},
		{"Sparse Autoencoder Features", "monosemantic feature dictionaries", "Neurons respond to mixed concepts. Training monosemantic feature dictionaries decomposes activations into interpretable directions."},
		{"Grokking and Generalization", "delayed generalization transition", "Memorization precedes understanding. Weight decay drives the delayed generalization transition on modular arithmetic."},
		{"Lottery Ticket Hypothesis", "sparse winning subnetworks", "Dense training hides small solutions. Iterative pruning uncovers sparse winning subnetworks trainable in isolation."},
		{"Neural Scaling Beyond Text", "multimodal scaling exponents", "Vision and audio follow their own curves. Measured multimodal scaling exponents predict cross modal transfer."},
		{"Efficient Vision Transformers", "windowed self attention", "Global attention is wasteful on images. Shifted windowed self attention restores locality with linear cost."},
		{"Masked Autoencoder Pretraining", "high ratio masking", "Pixel reconstruction seems too easy. Asymmetric encoders with high ratio masking learn strong representations fast."},
		{"Graph Neural Message Passing", "neighborhood aggregation layers", "Tabular encodings ignore structure. Stacked neighborhood aggregation layers propagate relational signal."},
		{"Protein Structure Prediction", "equivariant structure module", "Sequence alone underdetermines folds. An equivariant structure module refines residue frames iteratively."},
		{"Code Generation Models", "execution guided decoding", "Syntax errors waste samples. Unit test execution guided decoding reranks candidate programs."},
		{"Program Synthesis from Examples", "enumerative synthesis search", "Specifications are partial. Type directed enumerative synthesis search prunes the program space."},
		{"Neural Machine Translation", "back translation augmentation", "Parallel corpora are scarce. Monolingual back translation augmentation doubles effective training data."},
		{"Streaming Speech Recognition", "streaming transducer lattices", "Full attention adds latency. Pruned streaming transducer lattices decode as audio arrives."},
		{"Recommendation Retrieval Towers", "two tower embeddings", "Exhaustive scoring cannot scale. Jointly trained two tower embeddings enable approximate nearest neighbor serving."},
		{"Federated Learning Aggregation", "secure federated averaging", "Raw gradients leak private data. Clipped secure federated averaging bounds per client contribution."},
		{"Differential Privacy Accounting", "moments accountant bounds", "Naive composition overstates loss. Tight moments accountant bounds permit more training epochs."},
		{"Causal Effect Estimation", "doubly robust estimators", "Confounding biases naive contrasts. Cross fitted doubly robust estimators remain consistent under misspecification."},
		{"Bayesian Deep Ensembles", "deep ensemble posteriors", "Single point estimates hide uncertainty. Cheap deep ensemble posteriors approximate the predictive distribution."},
		{"Reward Model Overoptimization", "reward model overoptimization", "Proxy objectives invite gaming. We characterize reward model overoptimization with scaling law fits."},
		{"World Models for Control", "latent imagination rollouts", "Real environment samples are expensive. Policy learning inside latent imagination rollouts cuts interaction cost."},
		{"Embodied Instruction Following", "language conditioned policies", "Manipulation needs grounding. Hierarchical language conditioned policies map commands to motor primitives."},
	}

	out := make([]E2EPaper, 0, n)
	for i := 0; i < n; i++ {
		t := topics[i%len(topics)]
		title := t.title
		if i >= len(topics) {
			title = fmt.Sprintf("%s (%d)", t.title, i+1)
		}
		// Vary the body repetition so chunk counts differ across the corpus.
		repeats := 1 + (i*7)%12
		var b strings.Builder
		b.WriteString(title)
		b.WriteString("\n\n")
		for r := 0; r < repeats; r++ {
			b.WriteString(t.body)
			b.WriteString("\n")
		}
		text := b.String()
		out = append(out, E2EPaper{
			ID:        fmt.Sprintf("e2e-paper-%03d", i+1),
			Title:     title,
			Signature: t.signature,
			Text:      text,
			Words:     len(strings.Fields(text)),
		})
	}
	return out
}

func containsSignature(p E2EPaper) bool {
	return strings.Contains(p.Text, p.Signature)
}
