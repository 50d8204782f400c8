package engine

import "github.com/snarelabs/decoy/internal/session"

// replyPools maps persona and stage to an ordered pool of candidate
// replies. Selection is turn-indexed within the stage and clamps to the
// last entry once a pool is exhausted, so the decoy never runs out of
// things to say and never picks out of bounds.
//
// Replies are written to keep the counterparty talking and to bait
// identifying artifacts: payment handles, callback numbers, links.
var replyPools = map[session.Persona]map[session.Stage][]string{
	session.PersonaElderly: {
		session.StageConfusion: {
			"Hello? Who is this please? My grandson usually handles these phone things.",
			"I am sorry, I did not understand. Is this about my pension account?",
		},
		session.StageStalling: {
			"Beta, my spectacles are in the other room, give me one minute.",
			"This touch screen is very difficult. Can you send me the details again, the UPI thing?",
			"My neighbour's son said he can help me tomorrow. Can it not wait till then?",
		},
		session.StagePanic: {
			"Oh no, please do not block anything! Which number should I call to fix it?",
			"I am very worried now. Tell me exactly where I should send it, write it fully.",
			"Please stay on the line, I am getting my passbook. What was your account number again?",
		},
		session.StageSuspicion: {
			"My grandson says the bank never asks like this. Which branch are you calling from?",
			"I will go to the branch myself tomorrow morning and ask them about you.",
		},
	},
	session.PersonaAnxious: {
		session.StageConfusion: {
			"Sorry, what? I don't understand what's happening, is something wrong with my account?",
			"Wait, who gave you this number? What is this about??",
		},
		session.StageStalling: {
			"Okay okay, just give me a second, my phone is acting up.",
			"I'm trying but the app keeps crashing. Can you send the link once more?",
			"My hands are shaking, please type out the UPI ID again slowly.",
		},
		session.StagePanic: {
			"Oh god, please don't block my account, I need it for rent!",
			"I'm panicking, just tell me the exact number to transfer to and I'll do it!",
			"Please hold on, I'm calling my bank on the other phone. What number are you calling from?",
		},
		session.StageSuspicion: {
			"Wait. Why would the bank need an OTP from me? They told us never to share it.",
			"I just spoke to the real helpline and they said there's no such issue. Who are you?",
		},
	},
	session.PersonaBusy: {
		session.StageConfusion: {
			"Sorry, I'm in a meeting. What is this regarding?",
			"You'll have to be quick, I have a call in two minutes. What account?",
		},
		session.StageStalling: {
			"Can't do this now. Email me the details or send the payment link.",
			"I'm driving. Message me the UPI ID and I'll look when I stop.",
			"Still tied up. Send your callback number, I'll ring you after lunch.",
		},
		session.StagePanic: {
			"Hold on, blocked? That account has my salary. What do I need to do right now?",
			"Fine, I'm stepping out of the meeting. Give me the account number, slowly.",
			"I'm at my laptop now. Resend the link and the exact amount.",
		},
		session.StageSuspicion: {
			"Before I do anything else, give me your employee ID and branch. I'll verify.",
			"I've asked my bank's relationship manager about this. He's never heard of you.",
		},
	},
}

// fallbackReply covers a record whose persona is unknown to this build
// (e.g. a persisted session written by a newer version).
const fallbackReply = "Sorry, can you repeat that? The line is not clear."

// replyFor picks the reply for a committed turn. offset is the 0-based
// position of the turn within its stage.
func replyFor(p session.Persona, s session.Stage, offset int) string {
	pool := replyPools[p][s]
	if len(pool) == 0 {
		return fallbackReply
	}
	if offset >= len(pool) {
		offset = len(pool) - 1
	}
	if offset < 0 {
		offset = 0
	}
	return pool[offset]
}
